// Package folio converts Word documents into paginated document trees and
// HTML.
//
// Basic usage:
//
//	html, warnings, err := folio.Open("report.docx").HTMLString()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", folio.FormatWarnings(warnings))
//	}
//
// With options:
//
//	warnings, err := folio.Open("report.docx").
//	    WithLogger(logger).
//	    EmbedImages().
//	    OnlyPages(1, 2).
//	    HTML(w)
//
// Problems with the content of a document never fail a conversion. They
// are returned as warnings. Errors are reserved for files that cannot be
// read at all.
//
// For advanced use cases, the lower-level docx, pages and htmldoc packages
// are also available.
package folio

import (
	"errors"
	"io"

	"github.com/tsawler/folio/diag"
)

// ErrNotWordDocument is returned for files that are not word-processing
// packages, such as spreadsheets, presentations or PDFs.
var ErrNotWordDocument = errors.New("not a word-processing document")

// Warning is a non-fatal problem found while converting a document.
type Warning = diag.Warning

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	return diag.Format(warnings)
}

// Open opens a Word document and returns a Converter for fluent
// configuration. The file is read by the terminal operation.
//
// Example:
//
//	result, warnings, err := folio.Open("document.docx").Pages()
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader creates a Converter reading from r.
// The caller keeps ownership of r.
//
// Example:
//
//	f, _ := os.Open("document.docx")
//	defer f.Close()
//	info, _ := f.Stat()
//	result, warnings, err := folio.FromReader(f, info.Size()).Pages()
func FromReader(r io.ReaderAt, size int64) *Converter {
	return &Converter{
		source:  r,
		size:    size,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := folio.Must(folio.Open("document.docx").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is a helper that wraps a call to Pages() or Text() and panics
// if the error is non-nil. It discards warnings and returns just the value.
// It is intended for use in scripts or tests where error handling would be cumbersome.
//
// Example:
//
//	text := folio.MustResult(folio.Open("document.docx").Text())
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
