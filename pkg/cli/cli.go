// Package cli parses command-line arguments for the graphccc front end.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the settings parsed from command-line arguments.
type Config struct {
	ScriptPath string  // path to the .plot script file
	Morph      float64 // morph parameter injected into expression contexts
	LogLevel   string  // log level (debug, info, warn, error)
	JSON       bool    // emit the parse result as JSON
	ShowHelp   bool    // help flag
}

// ParseArgs parses command-line arguments into a Config.
func ParseArgs(args []string) (*Config, error) {
	// Reorder so flags come first and positional arguments last.
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("graphccc", flag.ContinueOnError)

	config := &Config{}

	fs.Float64Var(&config.Morph, "morph", 0, "morph parameter value")
	fs.Float64Var(&config.Morph, "m", 0, "morph parameter value (shorthand)")
	fs.StringVar(&config.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&config.LogLevel, "l", "info", "log level (shorthand)")
	fs.BoolVar(&config.JSON, "json", false, "emit the parse result as JSON")
	fs.BoolVar(&config.ShowHelp, "help", false, "show help")
	fs.BoolVar(&config.ShowHelp, "h", false, "show help (shorthand)")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// Environment variables apply when the flag was left at its default.
	if config.Morph == 0 {
		if morphEnv := os.Getenv("MORPH"); morphEnv != "" {
			if m, err := strconv.ParseFloat(morphEnv, 64); err == nil {
				config.Morph = m
			}
		}
	}
	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	if fs.NArg() > 0 {
		config.ScriptPath = fs.Arg(0)
	}

	return config, nil
}

// reorderArgs places flags before positional arguments.
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	boolFlags := map[string]bool{
		"-h": true, "--help": true,
		"-json": true, "--json": true,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if len(arg) > 0 && arg[0] == '-' {
			flags = append(flags, arg)

			// A value may follow, as in "-m 0.5".
			if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				if !boolFlags[arg] && !strings.Contains(arg, "=") {
					i++
					flags = append(flags, args[i])
				}
			}
		} else {
			positional = append(positional, arg)
		}
	}

	return append(flags, positional...)
}

// PrintHelp prints the usage message.
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `graphccc - plot script parser

Usage:
  graphccc [options] <script.plot>

Arguments:
  script.plot   Path to the plot script to parse.

Options:
  -m, --morph <value>       Morph parameter value (default: 0)
  -l, --log-level <level>   Log level: debug, info, warn, error (default: info)
  --json                    Emit the parse result as JSON
  -h, --help                Show this help

Environment Variables:
  MORPH=<value>             Morph parameter value
  LOG_LEVEL=<level>         Log level

Examples:
  graphccc scene.plot             Parse and list the scene commands
  graphccc --json scene.plot      Emit the parse result as JSON
  graphccc -m 0.5 scene.plot      Parse with the morph parameter at 0.5
`)
}
