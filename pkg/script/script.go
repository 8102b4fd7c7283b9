// Package script loads plot-script files from disk. Scripts written by
// legacy Windows editors arrive as Windows-1252; anything that is not
// valid UTF-8 is converted before parsing.
package script

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Extension is the plot-script file extension, matched case-insensitively.
const Extension = ".plot"

// Script is one loaded script file with its content converted to UTF-8.
type Script struct {
	FileName string
	Content  string
	Size     int64
}

// Loader loads script files from a base directory.
type Loader struct {
	basePath string
}

// NewLoader creates a Loader rooted at the given directory.
func NewLoader(basePath string) *Loader {
	return &Loader{basePath: basePath}
}

// LoadScript loads a single script file by path.
func LoadScript(path string) (*Script, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	content, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert encoding: %w", err)
	}

	return &Script{
		FileName: filepath.Base(path),
		Content:  content,
		Size:     info.Size(),
	}, nil
}

// LoadAllScripts loads every script file under the base directory.
func (l *Loader) LoadAllScripts() ([]Script, error) {
	scriptFiles, err := l.findScriptFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to find script files: %w", err)
	}

	if len(scriptFiles) == 0 {
		return nil, fmt.Errorf("no script files found in %s", l.basePath)
	}

	var scripts []Script
	for _, filePath := range scriptFiles {
		script, err := LoadScript(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load script %s: %w", filePath, err)
		}
		scripts = append(scripts, *script)
	}

	return scripts, nil
}

// findScriptFiles finds script files by extension, case-insensitively.
func (l *Loader) findScriptFiles() ([]string, error) {
	var scriptFiles []string

	err := filepath.Walk(l.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), Extension) {
			scriptFiles = append(scriptFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return scriptFiles, nil
}

// decode returns the content as UTF-8, converting from Windows-1252 when
// the raw bytes are not already valid UTF-8.
func decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoder := charmap.Windows1252.NewDecoder()
	reader := transform.NewReader(strings.NewReader(string(data)), decoder)
	converted, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to decode Windows-1252: %w", err)
	}
	return string(converted), nil
}
