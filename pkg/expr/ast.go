package expr

import (
	"strconv"
	"strings"
)

// Node is the interface for all expression AST nodes.
type Node interface {
	// String renders the node back as expression text, used in error
	// messages and continuation body rewriting.
	String() string
}

// NumberLiteral is a numeric literal.
type NumberLiteral struct {
	Value float64
}

func (n *NumberLiteral) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// StringLiteral is a quoted string literal.
type StringLiteral struct {
	Value string
}

func (s *StringLiteral) String() string {
	return `"` + s.Value + `"`
}

// Identifier is a variable or constant reference, case-normalized to
// uppercase.
type Identifier struct {
	Name string
}

func (i *Identifier) String() string { return i.Name }

// UnaryExpression is a prefix operation: -x, NOT x.
type UnaryExpression struct {
	Operator TokenType
	Right    Node
}

func (u *UnaryExpression) String() string {
	return "(" + u.Operator.String() + u.Right.String() + ")"
}

// BinaryExpression is an infix operation: left OP right.
type BinaryExpression struct {
	Operator TokenType
	Left     Node
	Right    Node
}

func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Operator.String() + " " + b.Right.String() + ")"
}

// CallExpression is a function invocation: NAME(arg1, arg2, ...).
// The callee name is case-normalized to uppercase.
type CallExpression struct {
	Name      string
	Arguments []Node
}

func (c *CallExpression) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}
