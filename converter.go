package folio

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/tsawler/folio/docx"
	"github.com/tsawler/folio/format"
	"github.com/tsawler/folio/htmldoc"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/pages"
)

// Converter provides a fluent interface for converting Word documents.
// Each configuration method returns a new Converter instance, making it
// safe for concurrent use and allowing method chaining.
type Converter struct {
	// Source: a file name, or a reader supplied by the caller
	filename string
	source   io.ReaderAt
	size     int64

	options ConvertOptions
}

// Result is a converted document.
type Result struct {
	// Pages holds the selected pages, all of them by default.
	Pages []*model.Page
	// Document is the unpaginated document tree with its notes, comments
	// and metadata.
	Document *model.Document
	// Headers and Footers map the relationship ids used by section
	// properties to their content.
	Headers map[string][]model.Node
	Footers map[string][]model.Node
}

// Parts returns the content the HTML renderer needs besides the pages.
func (r *Result) Parts() htmldoc.Parts {
	return htmldoc.Parts{
		Headers:  r.Headers,
		Footers:  r.Footers,
		Notes:    r.Document.Notes,
		Comments: r.Document.Comments,
	}
}

// clone creates a shallow copy of the Converter with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (c *Converter) clone() *Converter {
	out := *c
	out.options = c.options.clone()
	return &out
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// WithLogger sets the logger for diagnostic output. Warnings are logged at
// debug level as they are found.
func (c *Converter) WithLogger(logger *slog.Logger) *Converter {
	out := c.clone()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	out.options.logger = logger
	return out
}

// WithImageDescriber sets the describer used for pictures that have no
// alternative text, typically an *ocr.Client.
func (c *Converter) WithImageDescriber(d docx.ImageDescriber) *Converter {
	out := c.clone()
	out.options.describer = d
	return out
}

// EmbedImages writes image data into the HTML output as data URIs.
//
// Example:
//
//	warnings, err := folio.Open("doc.docx").EmbedImages().HTML(w)
func (c *Converter) EmbedImages() *Converter {
	out := c.clone()
	out.options.embedImages = true
	return out
}

// Fragment makes HTML output omit the doctype, html, head and body
// elements, for embedding in another page.
func (c *Converter) Fragment() *Converter {
	out := c.clone()
	out.options.fragment = true
	return out
}

// Title sets the title of the HTML output. The document's own title is
// used by default.
func (c *Converter) Title(title string) *Converter {
	out := c.clone()
	out.options.title = title
	return out
}

// OnlyPages restricts the output to the given pages (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	result, _, err := folio.Open("doc.docx").OnlyPages(1, 3).Pages()
func (c *Converter) OnlyPages(pages ...int) *Converter {
	out := c.clone()
	out.options.pages = append(out.options.pages, pages...)
	return out
}

// PageRange restricts the output to a range of pages (1-indexed, inclusive).
func (c *Converter) PageRange(start, end int) *Converter {
	out := c.clone()
	for i := start; i <= end; i++ {
		out.options.pages = append(out.options.pages, i)
	}
	return out
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Pages reads and paginates the document.
func (c *Converter) Pages() (*Result, []Warning, error) {
	pkg, err := c.read()
	if err != nil {
		return nil, nil, err
	}

	all := pages.Paginate(pkg.Document.Children)
	c.options.logger.Debug("paginated document", "pages", len(all))
	selected, err := c.selectPages(all)
	if err != nil {
		return nil, pkg.Warnings, err
	}
	return &Result{
		Pages:    selected,
		Document: pkg.Document,
		Headers:  pkg.Headers,
		Footers:  pkg.Footers,
	}, pkg.Warnings, nil
}

// PageCount returns the number of pages the document paginates into,
// ignoring any page selection.
func (c *Converter) PageCount() (int, error) {
	pkg, err := c.read()
	if err != nil {
		return 0, err
	}
	return len(pages.Paginate(pkg.Document.Children)), nil
}

// Text returns the plain text of the selected pages, pages separated by a
// form feed.
func (c *Converter) Text() (string, []Warning, error) {
	result, warnings, err := c.Pages()
	if err != nil {
		return "", warnings, err
	}
	texts := make([]string, len(result.Pages))
	for i, p := range result.Pages {
		texts[i] = p.ExtractText()
	}
	return strings.Join(texts, "\f"), warnings, nil
}

// HTML writes the selected pages as HTML.
func (c *Converter) HTML(w io.Writer) ([]Warning, error) {
	result, warnings, err := c.Pages()
	if err != nil {
		return warnings, err
	}

	title := c.options.title
	if title == "" {
		title = result.Document.Metadata.Title
	}
	err = htmldoc.Render(w, result.Pages, result.Parts(), htmldoc.Options{
		EmbedImages: c.options.embedImages,
		Title:       title,
		Fragment:    c.options.fragment,
		Logger:      c.options.logger,
	})
	if err != nil {
		return warnings, fmt.Errorf("rendering HTML: %w", err)
	}
	return warnings, nil
}

// HTMLString is HTML into a string.
func (c *Converter) HTMLString() (string, []Warning, error) {
	var buf bytes.Buffer
	warnings, err := c.HTML(&buf)
	if err != nil {
		return "", warnings, err
	}
	return buf.String(), warnings, nil
}

// ============================================================================
// Helpers
// ============================================================================

// read checks that the source is a word-processing package and reads it.
func (c *Converter) read() (*docx.Package, error) {
	r, size := c.source, c.size
	if r == nil {
		if c.filename == "" {
			return nil, fmt.Errorf("no filename specified")
		}
		f, err := os.Open(c.filename)
		if err != nil {
			return nil, fmt.Errorf("opening file: %w", err)
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("reading file info: %w", err)
		}
		r, size = f, info.Size()
	}

	detected, err := format.DetectFromReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("detecting format: %w", err)
	}
	if !detected.IsWordProcessing() {
		return nil, fmt.Errorf("%w: detected %s", ErrNotWordDocument, detected)
	}

	logger := c.options.logger
	pkg, err := docx.OpenReader(r, size, docx.Options{
		Logger:         logger,
		ImageDescriber: c.options.describer,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("read package", "format", detected, "warnings", len(pkg.Warnings))
	return pkg, nil
}

// selectPages applies the page selection. Selected pages keep their
// original Index, so header selection still sees the first page as first.
func (c *Converter) selectPages(all []*model.Page) ([]*model.Page, error) {
	if len(c.options.pages) == 0 {
		return all, nil
	}
	numbers := slices.Clone(c.options.pages)
	slices.Sort(numbers)
	numbers = slices.Compact(numbers)

	out := make([]*model.Page, 0, len(numbers))
	for _, n := range numbers {
		if n < 1 || n > len(all) {
			return nil, fmt.Errorf("page %d out of range (document has %d pages)", n, len(all))
		}
		out = append(out, all[n-1])
	}
	return out, nil
}
