package expr

// Scope is a variable binding environment for one evaluation. Values are
// float64 or string. Scopes nest: a loop iteration layers its variable
// over the caller's scope, and lookup walks outward.
type Scope struct {
	variables map[string]any
	parent    *Scope
}

// NewScope creates a new scope with an optional parent scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		variables: make(map[string]any),
		parent:    parent,
	}
}

// Get retrieves a variable value by name, searching the current scope
// first and then parent scopes.
func (s *Scope) Get(name string) (any, bool) {
	if value, ok := s.variables[name]; ok {
		return value, true
	}
	if s.parent != nil {
		return s.parent.Get(name)
	}
	return nil, false
}

// Set binds a value in the current scope, shadowing any parent binding of
// the same name.
func (s *Scope) Set(name string, value any) {
	s.variables[name] = value
}

// Has checks whether a variable exists in this scope or any parent scope.
func (s *Scope) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Parent returns the parent scope, or nil for the root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Keys returns the variable names bound directly in this scope.
func (s *Scope) Keys() []string {
	keys := make([]string, 0, len(s.variables))
	for k := range s.variables {
		keys = append(keys, k)
	}
	return keys
}

// Size returns the number of variables bound directly in this scope.
func (s *Scope) Size() int {
	return len(s.variables)
}
