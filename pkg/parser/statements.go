package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Tnsr-Q/GraphCCC/pkg/command"
	"github.com/Tnsr-Q/GraphCCC/pkg/expr"
	"github.com/Tnsr-Q/GraphCCC/pkg/parser/preprocessor"
)

// Statement parsers. Each parser matches the fixed grammar of one
// statement type and appends exactly one command or exactly one error for
// its line. Operand extraction uses anchored regular expressions for the
// plain-number grammars and quote/paren-aware splitting where operands are
// expressions.

// num matches a plain signed decimal number.
const num = `[-+]?(?:\d+(?:\.\d+)?|\.\d+)`

const ident = `[A-Za-z_][A-Za-z0-9_]*`

var (
	defRe = regexp.MustCompile(
		`(?i)^(` + ident + `)\s*\(\s*(` + ident + `(?:\s*,\s*` + ident + `)*)?\s*\)\s*=\s*(.+)$`)
	continuationRe = regexp.MustCompile(
		`^(` + ident + `)\s*=\s*(` + ident + `)\s*\+\s*(.+)$`)
	plot3DRe = regexp.MustCompile(
		`(?i)^(` + ident + `)\s*\(\s*(` + ident + `)\s*,\s*(` + ident + `)\s*\)$`)
	circleRe = regexp.MustCompile(
		`(?i)^(` + num + `)\s*,\s*(` + num + `)\s*,\s*(` + num + `)\s+WITH\s+RADIUS\s+(` + num +
			`)\s+COLOR\s+(\d+)\s*,\s*(\d+)\s*,\s*(\d+)$`)
	viewRe = regexp.MustCompile(
		`(?i)^VIEW\s+ANGLE\s+(` + num + `)\s*,\s*(` + num + `)$`)
	toggleRe = regexp.MustCompile(`(?i)^(GRID|AXES)\s+(ON|OFF)$`)
	colorRe  = regexp.MustCompile(`(?i)^(\d+)\s*,\s*(\d+)\s*,\s*(\d+)$`)
)

// dispatch routes one normalized line by its first keyword. Unrecognized
// or malformed statements cost one SyntaxError and never stop the parse.
func (st *state) dispatch(ln preprocessor.Line, scope *expr.Scope) {
	word, rest := firstWord(ln.Text)

	switch strings.ToUpper(word) {
	case "DEF":
		st.parseDef(ln, rest)
	case "PLOT3D":
		st.parsePlot3D(ln, rest)
	case "CIRCLE3D":
		st.parseCircle3D(ln, rest)
	case "TEXT", "LABEL":
		st.parseText(ln, rest, scope)
	case "PLOT":
		st.parsePlotPoint(ln, rest, scope)
	case "SET":
		st.parseSet(ln, rest)
	default:
		if m := continuationRe.FindStringSubmatch(ln.Text); m != nil && strings.EqualFold(m[1], m[2]) {
			st.parseContinuation(ln, m[1], m[3])
			return
		}
		st.res.AddError(ln.Num, command.SyntaxError, "unrecognized statement %q", word)
	}
}

// parseDef handles DEF name(arg1,arg2,...) = body. The body is screened
// and parsed immediately, so unsafe or malformed bodies fail here rather
// than at first invocation.
func (st *state) parseDef(ln preprocessor.Line, rest string) {
	m := defRe.FindStringSubmatch(rest)
	if m == nil {
		st.res.AddError(ln.Num, command.SyntaxError,
			"malformed DEF; expected: DEF name(arg1,arg2) = expression")
		return
	}

	var params []string
	if strings.TrimSpace(m[2]) != "" {
		params = splitTopLevel(m[2], ',')
	}

	if _, err := st.funcs.define(m[1], params, m[3]); err != nil {
		st.addEvalError(ln.Num, m[3], err)
	}
}

// parseContinuation handles name = name + extra, which extends a prior
// definition's body instead of replacing it.
func (st *state) parseContinuation(ln preprocessor.Line, name, extra string) {
	if _, ok := st.funcs.lookup(name); !ok {
		st.res.AddError(ln.Num, command.UndefinedContinuation,
			"cannot continue %s: no prior definition", strings.ToUpper(name))
		return
	}
	if err := expr.CheckSafe(extra); err != nil {
		st.addEvalError(ln.Num, extra, err)
		return
	}
	if _, err := st.funcs.extend(name, extra); err != nil {
		st.addEvalError(ln.Num, extra, err)
	}
}

// parsePlot3D handles PLOT3D name(X,Y).
func (st *state) parsePlot3D(ln preprocessor.Line, rest string) {
	m := plot3DRe.FindStringSubmatch(rest)
	if m == nil {
		st.res.AddError(ln.Num, command.SyntaxError,
			"malformed PLOT3D; expected: PLOT3D name(X,Y)")
		return
	}

	fn, ok := st.funcs.lookup(m[1])
	if !ok {
		st.res.AddError(ln.Num, command.UndefinedFunction,
			"function %s is not defined", strings.ToUpper(m[1]))
		return
	}
	if len(fn.Params) != 2 {
		st.res.AddError(ln.Num, command.EvaluationError,
			"%s takes %d argument(s); PLOT3D requires a function of two", fn.Name, len(fn.Params))
		return
	}

	st.res.AddCommand(command.Plot3D{
		Line:    ln.Num,
		Name:    fn.Name,
		Params:  fn.Params,
		Body:    fn.Body,
		Surface: st.funcs.surface(fn),
	})
}

// parseCircle3D handles CIRCLE3D cx,cy,cz WITH RADIUS r COLOR r,g,b. All
// operands are plain numbers; color channels are 0-255 integers.
func (st *state) parseCircle3D(ln preprocessor.Line, rest string) {
	m := circleRe.FindStringSubmatch(rest)
	if m == nil {
		st.res.AddError(ln.Num, command.SyntaxError,
			"malformed CIRCLE3D; expected: CIRCLE3D cx,cy,cz WITH RADIUS r COLOR r,g,b")
		return
	}

	color, err := parseColor(m[5], m[6], m[7])
	if err != nil {
		st.res.AddError(ln.Num, command.SyntaxError, "%s", err)
		return
	}

	st.res.AddCommand(command.Circle3D{
		Line:   ln.Num,
		CX:     mustFloat(m[1]),
		CY:     mustFloat(m[2]),
		CZ:     mustFloat(m[3]),
		Radius: mustFloat(m[4]),
		Color:  color,
	})
}

// parseText handles TEXT|LABEL AT xExpr,yExpr,zExpr "text". Coordinates
// are expressions evaluated against the surrounding scope. The text
// operand starts at the first top-level quote and is itself an
// expression, which lets loop bodies compose labels like "T=" + T.
func (st *state) parseText(ln preprocessor.Line, rest string, scope *expr.Scope) {
	word, operands := firstWord(rest)
	if !strings.EqualFold(word, "AT") {
		st.res.AddError(ln.Num, command.SyntaxError,
			`malformed TEXT; expected: TEXT AT x,y,z "text"`)
		return
	}

	qi := indexQuoteTopLevel(operands)
	if qi < 0 {
		st.res.AddError(ln.Num, command.SyntaxError,
			`malformed TEXT; expected a quoted text after the coordinates`)
		return
	}

	coordText := strings.TrimSpace(operands[:qi])
	coordText = strings.TrimSuffix(coordText, ",")
	coords := splitTopLevel(coordText, ',')
	if len(coords) != 3 {
		st.res.AddError(ln.Num, command.SyntaxError,
			"TEXT requires three coordinates, got %d", len(coords))
		return
	}

	var xyz [3]float64
	for i, c := range coords {
		v, err := st.evalNumber(c, scope)
		if err != nil {
			st.addEvalError(ln.Num, c, err)
			return
		}
		xyz[i] = v
	}

	textExpr := operands[qi:]
	value, err := st.eval(textExpr, scope)
	if err != nil {
		st.addEvalError(ln.Num, textExpr, err)
		return
	}

	st.res.AddCommand(command.Text{
		Line: ln.Num,
		X:    xyz[0],
		Y:    xyz[1],
		Z:    xyz[2],
		Text: stringValue(value),
	})
}

// parsePlotPoint handles PLOT POINT3D xExpr,yExpr,zExpr COLOR r,g,b SIZE s.
func (st *state) parsePlotPoint(ln preprocessor.Line, rest string, scope *expr.Scope) {
	word, operands := firstWord(rest)
	if !strings.EqualFold(word, "POINT3D") {
		st.res.AddError(ln.Num, command.SyntaxError,
			"unrecognized statement PLOT %s", word)
		return
	}

	colorIdx := indexWordTopLevel(operands, "COLOR")
	if colorIdx < 0 {
		st.res.AddError(ln.Num, command.SyntaxError,
			"malformed PLOT POINT3D; expected: PLOT POINT3D x,y,z COLOR r,g,b SIZE s")
		return
	}
	coordPart := strings.TrimSpace(operands[:colorIdx])
	tail := strings.TrimSpace(operands[colorIdx+len("COLOR"):])

	sizeIdx := indexWordTopLevel(tail, "SIZE")
	if sizeIdx < 0 {
		st.res.AddError(ln.Num, command.SyntaxError,
			"malformed PLOT POINT3D; missing SIZE")
		return
	}
	colorPart := strings.TrimSpace(tail[:sizeIdx])
	sizePart := strings.TrimSpace(tail[sizeIdx+len("SIZE"):])

	coords := splitTopLevel(coordPart, ',')
	if len(coords) != 3 {
		st.res.AddError(ln.Num, command.SyntaxError,
			"PLOT POINT3D requires three coordinates, got %d", len(coords))
		return
	}

	var xyz [3]float64
	for i, c := range coords {
		v, err := st.evalNumber(c, scope)
		if err != nil {
			st.addEvalError(ln.Num, c, err)
			return
		}
		xyz[i] = v
	}

	cm := colorRe.FindStringSubmatch(colorPart)
	if cm == nil {
		st.res.AddError(ln.Num, command.SyntaxError,
			"malformed COLOR; expected three 0-255 integers")
		return
	}
	color, err := parseColor(cm[1], cm[2], cm[3])
	if err != nil {
		st.res.AddError(ln.Num, command.SyntaxError, "%s", err)
		return
	}

	size, err := strconv.ParseFloat(sizePart, 64)
	if err != nil {
		st.res.AddError(ln.Num, command.SyntaxError, "malformed SIZE %q", sizePart)
		return
	}

	st.res.AddCommand(command.PlotPoint3D{
		Line:  ln.Num,
		X:     xyz[0],
		Y:     xyz[1],
		Z:     xyz[2],
		Color: color,
		Size:  size,
	})
}

// parseSet handles SET VIEW ANGLE az,el / SET GRID ON|OFF / SET AXES ON|OFF.
func (st *state) parseSet(ln preprocessor.Line, rest string) {
	if m := viewRe.FindStringSubmatch(rest); m != nil {
		st.res.AddCommand(command.SetView{
			Line:      ln.Num,
			Azimuth:   mustFloat(m[1]),
			Elevation: mustFloat(m[2]),
		})
		return
	}
	if m := toggleRe.FindStringSubmatch(rest); m != nil {
		on := strings.EqualFold(m[2], "ON")
		if strings.EqualFold(m[1], "GRID") {
			st.res.AddCommand(command.SetGrid{Line: ln.Num, On: on})
		} else {
			st.res.AddCommand(command.SetAxes{Line: ln.Num, On: on})
		}
		return
	}
	st.res.AddError(ln.Num, command.SyntaxError,
		"malformed SET; expected: SET VIEW ANGLE az,el | SET GRID ON|OFF | SET AXES ON|OFF")
}

// parseColor converts 0-255 channel strings to a normalized Color.
func parseColor(r, g, b string) (command.Color, error) {
	channels := [3]string{r, g, b}
	var out [3]float64
	for i, c := range channels {
		v, err := strconv.Atoi(c)
		if err != nil || v < 0 || v > 255 {
			return command.Color{}, fmt.Errorf("color channel %q must be an integer between 0 and 255", c)
		}
		out[i] = float64(v) / 255.0
	}
	return command.Color{R: out[0], G: out[1], B: out[2]}, nil
}

// mustFloat converts text the num pattern already validated.
func mustFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
