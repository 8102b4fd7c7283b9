package parser

import (
	"strings"
	"testing"

	"github.com/Tnsr-Q/GraphCCC/pkg/command"
	"github.com/Tnsr-Q/GraphCCC/pkg/parser/preprocessor"
)

func requireNoErrors(t *testing.T, res *command.Result) {
	t.Helper()
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func requireOneError(t *testing.T, res *command.Result, kind command.Kind) command.ErrorRecord {
	t.Helper()
	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(res.Errors), res.Errors)
	}
	if res.Errors[0].Kind != kind {
		t.Fatalf("error kind = %s, want %s (message: %s)", res.Errors[0].Kind, kind, res.Errors[0].Message)
	}
	return res.Errors[0]
}

func TestParse_SetCommands(t *testing.T) {
	res := Parse("SET VIEW ANGLE 45, 30\nSET GRID ON\nSET AXES OFF")
	requireNoErrors(t, res)
	if len(res.Commands) != 3 {
		t.Fatalf("got %d commands, want 3", len(res.Commands))
	}

	view, ok := res.Commands[0].(command.SetView)
	if !ok {
		t.Fatalf("commands[0] = %T, want SetView", res.Commands[0])
	}
	if view.Azimuth != 45 || view.Elevation != 30 || view.SourceLine() != 1 {
		t.Errorf("SetView = %+v, want azimuth 45, elevation 30, line 1", view)
	}

	grid, ok := res.Commands[1].(command.SetGrid)
	if !ok || !grid.On {
		t.Errorf("commands[1] = %+v, want SetGrid on", res.Commands[1])
	}

	axes, ok := res.Commands[2].(command.SetAxes)
	if !ok || axes.On {
		t.Errorf("commands[2] = %+v, want SetAxes off", res.Commands[2])
	}
}

func TestParse_KeywordsAreCaseInsensitive(t *testing.T) {
	res := Parse("set grid on\nSeT aXeS oFf")
	requireNoErrors(t, res)
	if len(res.Commands) != 2 {
		t.Fatalf("got %d commands, want 2", len(res.Commands))
	}
}

func TestParse_Circle3D(t *testing.T) {
	res := Parse("CIRCLE3D 0, 1.5, -2 WITH RADIUS 3 COLOR 255, 0, 0")
	requireNoErrors(t, res)

	c, ok := res.Commands[0].(command.Circle3D)
	if !ok {
		t.Fatalf("commands[0] = %T, want Circle3D", res.Commands[0])
	}
	if c.CX != 0 || c.CY != 1.5 || c.CZ != -2 || c.Radius != 3 {
		t.Errorf("Circle3D = %+v, want center (0, 1.5, -2) radius 3", c)
	}
	if c.Color != (command.Color{R: 1, G: 0, B: 0}) {
		t.Errorf("Color = %+v, want normalized (1, 0, 0)", c.Color)
	}
}

func TestParse_Circle3D_ColorOutOfRange(t *testing.T) {
	res := Parse("CIRCLE3D 0, 0, 0 WITH RADIUS 1 COLOR 256, 0, 0")
	requireOneError(t, res, command.SyntaxError)
	if len(res.Commands) != 0 {
		t.Errorf("out-of-range color should emit no command, got %v", res.Commands)
	}
}

func TestParse_Circle3D_Malformed(t *testing.T) {
	res := Parse("CIRCLE3D 0, 0 WITH RADIUS 1 COLOR 255, 0, 0")
	requireOneError(t, res, command.SyntaxError)
}

func TestParse_DefAndPlot3D(t *testing.T) {
	res := Parse("DEF F(X, Y) = X + Y * 2\nPLOT3D F(X, Y)")
	requireNoErrors(t, res)
	if len(res.Commands) != 1 {
		t.Fatalf("got %d commands, want 1", len(res.Commands))
	}

	p, ok := res.Commands[0].(command.Plot3D)
	if !ok {
		t.Fatalf("commands[0] = %T, want Plot3D", res.Commands[0])
	}
	if p.Name != "F" {
		t.Errorf("Name = %q, want F", p.Name)
	}
	if len(p.Params) != 2 || p.Params[0] != "X" || p.Params[1] != "Y" {
		t.Errorf("Params = %v, want [X Y]", p.Params)
	}

	z, err := p.Surface(1, 2)
	if err != nil {
		t.Fatalf("Surface(1, 2) failed: %v", err)
	}
	if z != 5 {
		t.Errorf("Surface(1, 2) = %g, want 5", z)
	}
}

func TestParse_Plot3D_UndefinedFunction(t *testing.T) {
	res := Parse("PLOT3D G(X, Y)")
	rec := requireOneError(t, res, command.UndefinedFunction)
	if rec.Line != 1 {
		t.Errorf("error line = %d, want 1", rec.Line)
	}
	if !strings.Contains(rec.Message, "G") {
		t.Errorf("message should name the function: %q", rec.Message)
	}
}

func TestParse_Plot3D_WrongArity(t *testing.T) {
	res := Parse("DEF F(X) = X\nPLOT3D F(X, Y)")
	requireOneError(t, res, command.EvaluationError)
}

func TestParse_DefErrors(t *testing.T) {
	tests := []struct {
		source string
		kind   command.Kind
	}{
		{"DEF F(X = X", command.SyntaxError},
		{"DEF F(X) = X + ", command.SyntaxError},
		{"DEF F(X) = window", command.UnsafeExpression},
	}
	for _, tt := range tests {
		res := Parse(tt.source)
		if len(res.Errors) != 1 || res.Errors[0].Kind != tt.kind {
			t.Errorf("Parse(%q) errors = %v, want one %s", tt.source, res.Errors, tt.kind)
		}
	}
}

func TestParse_RedefinitionSnapshot(t *testing.T) {
	// The command emitted before the redefinition must keep sampling the
	// old body.
	res := Parse("DEF F(X, Y) = 1\nPLOT3D F(X, Y)\nDEF F(X, Y) = 2\nPLOT3D F(X, Y)")
	requireNoErrors(t, res)
	if len(res.Commands) != 2 {
		t.Fatalf("got %d commands, want 2", len(res.Commands))
	}

	first := res.Commands[0].(command.Plot3D)
	second := res.Commands[1].(command.Plot3D)

	if z, _ := first.Surface(0, 0); z != 1 {
		t.Errorf("first surface = %g, want the snapshot value 1", z)
	}
	if z, _ := second.Surface(0, 0); z != 2 {
		t.Errorf("second surface = %g, want 2", z)
	}
	if first.Body != "1" || second.Body != "2" {
		t.Errorf("bodies = %q, %q; want 1, 2", first.Body, second.Body)
	}
}

func TestParse_Continuation(t *testing.T) {
	res := Parse("DEF F(X, Y) = X\nF = F + Y\nPLOT3D F(X, Y)")
	requireNoErrors(t, res)

	p := res.Commands[0].(command.Plot3D)
	z, err := p.Surface(3, 4)
	if err != nil {
		t.Fatalf("Surface failed: %v", err)
	}
	if z != 7 {
		t.Errorf("Surface(3, 4) = %g, want 7 (continuation adds Y)", z)
	}
	if p.Body != "(X) + (Y)" {
		t.Errorf("Body = %q, want %q", p.Body, "(X) + (Y)")
	}
}

func TestParse_ContinuationEquivalentToCombinedDef(t *testing.T) {
	cont := Parse("DEF F(X, Y) = SIN(X)\nF = F + COS(Y)\nPLOT3D F(X, Y)")
	comb := Parse("DEF F(X, Y) = (SIN(X)) + (COS(Y))\nPLOT3D F(X, Y)")
	requireNoErrors(t, cont)
	requireNoErrors(t, comb)

	a := cont.Commands[0].(command.Plot3D)
	b := comb.Commands[0].(command.Plot3D)
	for _, pt := range [][2]float64{{0, 0}, {1, 2}, {-3, 0.5}} {
		za, err := a.Surface(pt[0], pt[1])
		if err != nil {
			t.Fatalf("Surface failed: %v", err)
		}
		zb, err := b.Surface(pt[0], pt[1])
		if err != nil {
			t.Fatalf("Surface failed: %v", err)
		}
		if za != zb {
			t.Errorf("surfaces differ at %v: %g vs %g", pt, za, zb)
		}
	}
}

func TestParse_ContinuationWithoutDefinition(t *testing.T) {
	res := Parse("F = F + SIN(X)")
	rec := requireOneError(t, res, command.UndefinedContinuation)
	if !strings.Contains(rec.Message, "F") {
		t.Errorf("message should name the function: %q", rec.Message)
	}
}

func TestParse_ContinuationUnsafeExtra(t *testing.T) {
	res := Parse("DEF F(X, Y) = X\nF = F + window")
	requireOneError(t, res, command.UnsafeExpression)
}

func TestParse_Text(t *testing.T) {
	res := Parse(`TEXT AT 1, 2, 3 "hello"`)
	requireNoErrors(t, res)

	txt := res.Commands[0].(command.Text)
	if txt.X != 1 || txt.Y != 2 || txt.Z != 3 || txt.Text != "hello" {
		t.Errorf("Text = %+v, want (1, 2, 3) hello", txt)
	}
}

func TestParse_LabelAliasesText(t *testing.T) {
	res := Parse(`LABEL AT 0, 0, 0 "origin"`)
	requireNoErrors(t, res)
	if _, ok := res.Commands[0].(command.Text); !ok {
		t.Errorf("LABEL should emit a Text command, got %T", res.Commands[0])
	}
}

func TestParse_TextExpressionCoordinates(t *testing.T) {
	res := Parse(`TEXT AT SIN(0), 1 + 1, 2 * 2 "calc"`)
	requireNoErrors(t, res)

	txt := res.Commands[0].(command.Text)
	if txt.X != 0 || txt.Y != 2 || txt.Z != 4 {
		t.Errorf("coordinates = (%g, %g, %g), want (0, 2, 4)", txt.X, txt.Y, txt.Z)
	}
}

func TestParse_TextComposedLabel(t *testing.T) {
	res := Parse("FOR T = 0 TO 2\nTEXT AT T, 0, 0 \"T=\" + T\nNEXT T")
	requireNoErrors(t, res)
	if len(res.Commands) != 3 {
		t.Fatalf("got %d commands, want 3", len(res.Commands))
	}
	for i, want := range []string{"T=0", "T=1", "T=2"} {
		txt := res.Commands[i].(command.Text)
		if txt.Text != want {
			t.Errorf("commands[%d].Text = %q, want %q", i, txt.Text, want)
		}
		if txt.X != float64(i) {
			t.Errorf("commands[%d].X = %g, want %d", i, txt.X, i)
		}
	}
}

func TestParse_TextErrors(t *testing.T) {
	tests := []struct {
		source string
		kind   command.Kind
	}{
		{`TEXT 1, 2, 3 "x"`, command.SyntaxError},     // missing AT
		{`TEXT AT 1, 2, 3`, command.SyntaxError},      // missing quoted text
		{`TEXT AT 1, 2 "x"`, command.SyntaxError},     // two coordinates
		{`TEXT AT Q, 2, 3 "x"`, command.EvaluationError}, // undefined variable
	}
	for _, tt := range tests {
		res := Parse(tt.source)
		if len(res.Errors) != 1 || res.Errors[0].Kind != tt.kind {
			t.Errorf("Parse(%q) errors = %v, want one %s", tt.source, res.Errors, tt.kind)
		}
		if len(res.Commands) != 0 {
			t.Errorf("Parse(%q) emitted commands %v, want none", tt.source, res.Commands)
		}
	}
}

func TestParse_PlotPoint3D(t *testing.T) {
	res := Parse("PLOT POINT3D 1 + 1, SIN(0), 3 COLOR 0, 255, 0 SIZE 2.5")
	requireNoErrors(t, res)

	p, ok := res.Commands[0].(command.PlotPoint3D)
	if !ok {
		t.Fatalf("commands[0] = %T, want PlotPoint3D", res.Commands[0])
	}
	if p.X != 2 || p.Y != 0 || p.Z != 3 {
		t.Errorf("point = (%g, %g, %g), want (2, 0, 3)", p.X, p.Y, p.Z)
	}
	if p.Color != (command.Color{R: 0, G: 1, B: 0}) {
		t.Errorf("Color = %+v, want (0, 1, 0)", p.Color)
	}
	if p.Size != 2.5 {
		t.Errorf("Size = %g, want 2.5", p.Size)
	}
}

func TestParse_PlotPoint3DErrors(t *testing.T) {
	tests := []string{
		"PLOT SOMETHING 1, 2, 3",
		"PLOT POINT3D 1, 2, 3 SIZE 2",             // missing COLOR
		"PLOT POINT3D 1, 2, 3 COLOR 0, 0, 0",      // missing SIZE
		"PLOT POINT3D 1, 2 COLOR 0, 0, 0 SIZE 1",  // two coordinates
		"PLOT POINT3D 1, 2, 3 COLOR 0, 300, 0 SIZE 1",
		"PLOT POINT3D 1, 2, 3 COLOR 0, 0, 0 SIZE big",
	}
	for _, source := range tests {
		res := Parse(source)
		if len(res.Errors) != 1 || res.Errors[0].Kind != command.SyntaxError {
			t.Errorf("Parse(%q) errors = %v, want one SyntaxError", source, res.Errors)
		}
	}
}

func TestParse_MorphIsVisibleEverywhere(t *testing.T) {
	source := "DEF F(X, Y) = MORPH\nPLOT3D F(X, Y)\nPLOT POINT3D MORPH, 0, 0 COLOR 0, 0, 0 SIZE 1"
	res := ParseWithOptions(source, Options{Morph: 0.5})
	requireNoErrors(t, res)

	p := res.Commands[0].(command.Plot3D)
	if z, _ := p.Surface(0, 0); z != 0.5 {
		t.Errorf("surface sampled MORPH = %g, want 0.5", z)
	}

	pt := res.Commands[1].(command.PlotPoint3D)
	if pt.X != 0.5 {
		t.Errorf("statement-level MORPH = %g, want 0.5", pt.X)
	}
}

func TestParse_SizeLimit(t *testing.T) {
	comment := "REM " + strings.Repeat("a", preprocessor.MaxScriptSize)
	res := Parse(comment)

	rec := requireOneError(t, res, command.SizeLimitExceeded)
	if rec.Line != 0 {
		t.Errorf("size errors are not line-scoped, got line %d", rec.Line)
	}
	if len(res.Commands) != 0 {
		t.Errorf("oversized script must yield no commands, got %d", len(res.Commands))
	}
}

func TestParse_SizeLimitBoundary(t *testing.T) {
	// Pad with comment text to exactly the cap: still fine.
	line := "SET GRID ON\nREM "
	source := line + strings.Repeat("a", preprocessor.MaxScriptSize-len(line))
	res := Parse(source)
	requireNoErrors(t, res)
	if len(res.Commands) != 1 {
		t.Errorf("got %d commands, want 1", len(res.Commands))
	}

	res = Parse(source + "a")
	requireOneError(t, res, command.SizeLimitExceeded)
}

func TestParse_ErrorsDoNotStopTheParse(t *testing.T) {
	res := Parse("SET GRID ON\nGARBAGE HERE\nSET AXES ON")
	if len(res.Commands) != 2 {
		t.Errorf("got %d commands, want 2 (parse continues past errors)", len(res.Commands))
	}
	rec := requireOneError(t, res, command.SyntaxError)
	if rec.Line != 2 {
		t.Errorf("error line = %d, want 2", rec.Line)
	}
}

func TestParse_CommandsKeepSourceOrder(t *testing.T) {
	res := Parse("SET GRID ON\nCIRCLE3D 0, 0, 0 WITH RADIUS 1 COLOR 0, 0, 0\nSET AXES ON")
	requireNoErrors(t, res)
	lines := make([]int, len(res.Commands))
	for i, c := range res.Commands {
		lines[i] = c.SourceLine()
	}
	if len(lines) != 3 || lines[0] != 1 || lines[1] != 2 || lines[2] != 3 {
		t.Errorf("command source lines = %v, want [1 2 3]", lines)
	}
}

func TestParse_EmptyScript(t *testing.T) {
	res := Parse("")
	requireNoErrors(t, res)
	if len(res.Commands) != 0 {
		t.Errorf("empty script should yield no commands")
	}
}
