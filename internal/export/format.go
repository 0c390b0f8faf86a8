// Package export renders tabular results into downloadable document
// artifacts. The renderer is entity-agnostic: columns and rows in, a PDF
// or spreadsheet byte stream out.
package export

import (
	"fmt"

	"github.com/pyarchinit/archweb/internal/errors"
)

// Format selects the output document format.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

// ErrUnsupportedFormat is returned before any I/O when the requested
// format is not one of the supported values.
var ErrUnsupportedFormat = errors.NewStd("unsupported export format")

// ContentType returns the MIME type for the rendered artifact.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension for the rendered artifact.
func (f Format) Extension() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatExcel:
		return "xlsx"
	default:
		return "bin"
	}
}

// Valid reports whether the format is supported.
func (f Format) Valid() bool {
	return f == FormatPDF || f == FormatExcel
}

// IncompleteExportError reports a failure after rendering began. Output
// already written must not be presented as a complete artifact; callers
// decide whether to retry or discard the partial file.
type IncompleteExportError struct {
	Format Format
	Err    error
}

// Error implements the error interface.
func (e *IncompleteExportError) Error() string {
	return fmt.Sprintf("incomplete %s export: %v", e.Format, e.Err)
}

// Unwrap returns the underlying cause.
func (e *IncompleteExportError) Unwrap() error {
	return e.Err
}
