// Package command defines the scene commands produced by parsing a plot
// script, together with the line-tagged error records and the combined
// parse result consumed by the rendering layer.
package command

import "fmt"

// Kind classifies an ErrorRecord.
type Kind int

// Error kinds.
const (
	SizeLimitExceeded Kind = iota // script over the size cap; fatal
	SyntaxError                   // unrecognized or malformed statement
	UndefinedFunction             // reference to a function never registered
	UndefinedContinuation         // continuation with no prior base definition
	UnsafeExpression              // expression failed the safety screen
	EvaluationError               // evaluator failed mid-computation
	LoopOverflow                  // loop iteration cap reached
	MissingTerminator             // FOR without a matching NEXT
)

var kindNames = map[Kind]string{
	SizeLimitExceeded:     "SizeLimitExceeded",
	SyntaxError:           "SyntaxError",
	UndefinedFunction:     "UndefinedFunction",
	UndefinedContinuation: "UndefinedContinuation",
	UnsafeExpression:      "UnsafeExpression",
	EvaluationError:       "EvaluationError",
	LoopOverflow:          "LoopOverflow",
	MissingTerminator:     "MissingTerminator",
}

// String returns the name of the error kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// MarshalJSON encodes the kind as its name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// ErrorRecord is one recoverable (or, for SizeLimitExceeded, fatal) parse
// error tagged with the original source line that produced it.
type ErrorRecord struct {
	Line    int    `json:"line"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ErrorRecord) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Kind, e.Message)
}

// Command is one declarative scene instruction. Exactly one of the variant
// methods below applies; renderers switch on the concrete type.
type Command interface {
	// SourceLine returns the original (pre-normalization) script line
	// number that emitted this command.
	SourceLine() int
	commandNode()
}

// Color is an RGB triple with channels normalized to [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// SurfaceFunc samples a plotted function at (x, y). The morph parameter
// active at parse time is already bound inside the closure.
type SurfaceFunc func(x, y float64) (float64, error)

// Plot3D instructs the renderer to draw a parametric surface for a
// user-defined function. Name, Params and Body are the definition as it
// stood when the PLOT3D statement was reached; Surface is a pure sampling
// closure over that snapshot.
type Plot3D struct {
	Line    int         `json:"line"`
	Name    string      `json:"name"`
	Params  []string    `json:"params"`
	Body    string      `json:"body"`
	Surface SurfaceFunc `json:"-"`
}

// Circle3D instructs the renderer to draw a closed polyline approximating a
// circle centered at (CX, CY, CZ).
type Circle3D struct {
	Line   int     `json:"line"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	CZ     float64 `json:"cz"`
	Radius float64 `json:"radius"`
	Color  Color   `json:"color"`
}

// Text instructs the renderer to place a label at a world position.
type Text struct {
	Line int     `json:"line"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Text string  `json:"text"`
}

// PlotPoint3D instructs the renderer to add one point of a trajectory.
type PlotPoint3D struct {
	Line  int     `json:"line"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Color Color   `json:"color"`
	Size  float64 `json:"size"`
}

// SetView sets the camera azimuth and elevation in degrees.
type SetView struct {
	Line      int     `json:"line"`
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
}

// SetGrid toggles the helper grid.
type SetGrid struct {
	Line int  `json:"line"`
	On   bool `json:"on"`
}

// SetAxes toggles the coordinate axes.
type SetAxes struct {
	Line int  `json:"line"`
	On   bool `json:"on"`
}

func (c Plot3D) SourceLine() int      { return c.Line }
func (c Circle3D) SourceLine() int    { return c.Line }
func (c Text) SourceLine() int        { return c.Line }
func (c PlotPoint3D) SourceLine() int { return c.Line }
func (c SetView) SourceLine() int     { return c.Line }
func (c SetGrid) SourceLine() int     { return c.Line }
func (c SetAxes) SourceLine() int     { return c.Line }

func (Plot3D) commandNode()      {}
func (Circle3D) commandNode()    {}
func (Text) commandNode()        {}
func (PlotPoint3D) commandNode() {}
func (SetView) commandNode()     {}
func (SetGrid) commandNode()     {}
func (SetAxes) commandNode()     {}

// Result is the outcome of one parse call: the commands in emission order
// plus every error collected along the way. A non-empty error list never
// removes commands that were already produced; whether errors should block
// rendering is the caller's policy.
type Result struct {
	Commands []Command     `json:"commands"`
	Errors   []ErrorRecord `json:"errors,omitempty"`
}

// AddCommand appends a command, preserving emission order.
func (r *Result) AddCommand(cmd Command) {
	r.Commands = append(r.Commands, cmd)
}

// AddError appends an error record.
func (r *Result) AddError(line int, kind Kind, format string, args ...any) {
	r.Errors = append(r.Errors, ErrorRecord{
		Line:    line,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any error was collected.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}
