// Package app wires the graphccc front end together: argument parsing,
// logging, script loading, parsing and result output.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Tnsr-Q/GraphCCC/pkg/cli"
	"github.com/Tnsr-Q/GraphCCC/pkg/command"
	"github.com/Tnsr-Q/GraphCCC/pkg/logger"
	"github.com/Tnsr-Q/GraphCCC/pkg/parser"
	"github.com/Tnsr-Q/GraphCCC/pkg/script"
)

// Application manages the main application logic.
type Application struct {
	config *cli.Config
	log    *slog.Logger
	out    io.Writer
}

// New creates an Application writing its result to the given writer.
func New(out io.Writer) *Application {
	return &Application{out: out}
}

// Run executes the application.
func (app *Application) Run(args []string) error {
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp()
		return nil
	}

	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if app.config.ScriptPath == "" {
		cli.PrintHelp()
		return fmt.Errorf("no script file given")
	}

	s, err := script.LoadScript(app.config.ScriptPath)
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}
	app.log.Info("Script loaded", "name", s.FileName, "size", s.Size)

	result := parser.ParseWithOptions(s.Content, parser.Options{Morph: app.config.Morph})
	app.log.Info("Script parsed",
		"commands", len(result.Commands), "errors", len(result.Errors))

	for _, e := range result.Errors {
		app.log.Warn("Parse error", "line", e.Line, "kind", e.Kind.String(), "message", e.Message)
	}

	if app.config.JSON {
		if err := app.writeJSON(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		app.writeListing(result)
	}

	// A script over the size cap is the one fatal outcome.
	for _, e := range result.Errors {
		if e.Kind == command.SizeLimitExceeded {
			return fmt.Errorf("script rejected: %s", e.Message)
		}
	}
	return nil
}

// parseArgs parses command-line arguments.
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger initializes the logger.
func (app *Application) initLogger() error {
	if err := logger.InitLogger(app.config.LogLevel); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// jsonCommand wraps a command with its variant name for JSON output.
type jsonCommand struct {
	Type    string          `json:"type"`
	Command command.Command `json:"command"`
}

// writeJSON emits the parse result as JSON.
func (app *Application) writeJSON(result *command.Result) error {
	commands := make([]jsonCommand, len(result.Commands))
	for i, c := range result.Commands {
		commands[i] = jsonCommand{Type: commandType(c), Command: c}
	}

	payload := struct {
		Commands []jsonCommand         `json:"commands"`
		Errors   []command.ErrorRecord `json:"errors,omitempty"`
	}{Commands: commands, Errors: result.Errors}

	enc := json.NewEncoder(app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// writeListing emits a human-readable command listing.
func (app *Application) writeListing(result *command.Result) {
	for _, c := range result.Commands {
		switch cmd := c.(type) {
		case command.Plot3D:
			fmt.Fprintf(app.out, "%4d  PLOT3D    %s(%v) = %s\n", cmd.Line, cmd.Name, cmd.Params, cmd.Body)
		case command.Circle3D:
			fmt.Fprintf(app.out, "%4d  CIRCLE3D  center=(%g,%g,%g) radius=%g color=(%.3f,%.3f,%.3f)\n",
				cmd.Line, cmd.CX, cmd.CY, cmd.CZ, cmd.Radius, cmd.Color.R, cmd.Color.G, cmd.Color.B)
		case command.Text:
			fmt.Fprintf(app.out, "%4d  TEXT      at=(%g,%g,%g) %q\n", cmd.Line, cmd.X, cmd.Y, cmd.Z, cmd.Text)
		case command.PlotPoint3D:
			fmt.Fprintf(app.out, "%4d  POINT3D   at=(%g,%g,%g) size=%g color=(%.3f,%.3f,%.3f)\n",
				cmd.Line, cmd.X, cmd.Y, cmd.Z, cmd.Size, cmd.Color.R, cmd.Color.G, cmd.Color.B)
		case command.SetView:
			fmt.Fprintf(app.out, "%4d  SETVIEW   azimuth=%g elevation=%g\n", cmd.Line, cmd.Azimuth, cmd.Elevation)
		case command.SetGrid:
			fmt.Fprintf(app.out, "%4d  SETGRID   on=%t\n", cmd.Line, cmd.On)
		case command.SetAxes:
			fmt.Fprintf(app.out, "%4d  SETAXES   on=%t\n", cmd.Line, cmd.On)
		}
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "line %d: %s: %s\n", e.Line, e.Kind, e.Message)
	}
}

func commandType(c command.Command) string {
	switch c.(type) {
	case command.Plot3D:
		return "plot3d"
	case command.Circle3D:
		return "circle3d"
	case command.Text:
		return "text"
	case command.PlotPoint3D:
		return "plotpoint3d"
	case command.SetView:
		return "setview"
	case command.SetGrid:
		return "setgrid"
	case command.SetAxes:
		return "setaxes"
	}
	return "unknown"
}
