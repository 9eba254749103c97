// SPDX-License-Identifier: MPL-2.0

package verdict

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/adoptopenjdk/splitpkgscan/pkg/fspath"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"gopkg.in/yaml.v3"
)

const (
	// FormatYAML writes split-packages.yaml.
	FormatYAML Format = "yaml"
	// FormatJSON writes split-packages.json.
	FormatJSON Format = "json"
	// FormatNone disables the report file.
	FormatNone Format = "none"

	// ReportBaseName is the report file name without extension.
	ReportBaseName = "split-packages"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid report format")

type (
	// Format selects the report file encoding.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	// It wraps ErrInvalidFormat for errors.Is() compatibility.
	InvalidFormatError struct {
		Value Format
	}

	// ReportWriter collects verdicts and writes them to a file in Dir on
	// Flush.
	ReportWriter struct {
		Collector

		dir    types.FilesystemPath
		format Format
	}
)

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Validate returns nil if the Format is one of the known encodings.
func (f Format) Validate() error {
	switch f {
	case FormatYAML, FormatJSON, FormatNone:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid report format %q (valid: yaml, json, none)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// NewReportWriter returns a writer targeting dir. The directory is created
// on Flush if it does not exist.
func NewReportWriter(dir types.FilesystemPath, format Format) (*ReportWriter, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	if format != FormatNone {
		if err := dir.Validate(); err != nil {
			return nil, fmt.Errorf("report directory: %w", err)
		}
	}
	return &ReportWriter{dir: dir, format: format}, nil
}

// Path returns the file Flush writes to, or "" for FormatNone.
func (w *ReportWriter) Path() types.FilesystemPath {
	if w.format == FormatNone {
		return ""
	}
	return fspath.JoinStr(w.dir, ReportBaseName+"."+string(w.format))
}

// Flush encodes the collected verdicts and writes the report file,
// replacing any previous one. It returns the path written.
func (w *ReportWriter) Flush() (types.FilesystemPath, error) {
	if w.format == FormatNone {
		return "", nil
	}

	data, err := Encode(w.Document(), w.format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(string(w.dir), 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := w.Path()
	if err := os.WriteFile(string(path), data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Encode serializes doc in the given format.
func Encode(doc Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml report: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json report: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, &InvalidFormatError{Value: format}
	}
}
