// Package parsers reads scoring bundles and event logs from files.
package parsers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// EventParser defines the interface for parsing events from various formats.
type EventParser interface {
	Parse(r io.Reader) ([]entities.Event, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) EventParser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) EventParser {
	return ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// LoadEvents parses an event file, choosing the parser by extension.
func LoadEvents(path string) ([]entities.Event, error) {
	parser := ForFile(path)
	if parser == nil {
		return nil, fmt.Errorf("unsupported event file format: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening event file: %w", err)
	}
	defer f.Close()

	return parser.Parse(f)
}

// LoadBundle reads a JSON bundle file and, when extraEvents names a file,
// appends the events it contains.
func LoadBundle(path, extraEvents string) (*entities.Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bundle: %w", err)
	}
	defer f.Close()

	bundle, err := ParseBundle(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if extraEvents != "" {
		events, err := LoadEvents(extraEvents)
		if err != nil {
			return nil, err
		}
		if err := attachEvents(bundle, events); err != nil {
			return nil, fmt.Errorf("%s: %w", extraEvents, err)
		}
	}

	return bundle, nil
}
