package folio

import (
	"io"
	"log/slog"
	"slices"

	"github.com/tsawler/folio/docx"
)

// ConvertOptions holds configuration for a conversion.
type ConvertOptions struct {
	// Page selection (1-indexed in API, stored as-is)
	pages []int

	logger    *slog.Logger
	describer docx.ImageDescriber

	// HTML output
	embedImages bool
	fragment    bool
	title       string
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		pages:  nil, // nil means all pages
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	out := o
	out.pages = slices.Clone(o.pages)
	return out
}
