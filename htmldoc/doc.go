// Package htmldoc renders paginated document trees as HTML.
//
// Each page becomes a div.page sized from its section properties, with the
// section's header and footer positioned inside it. The first page of a
// document uses the first-page header and footer when the section declares
// them.
//
//	pkg, err := docx.Open("report.docx", docx.Options{})
//	if err != nil {
//	    return err
//	}
//	err = htmldoc.Render(os.Stdout, pages.Paginate(pkg.Document.Children), htmldoc.Parts{
//	    Headers:  pkg.Headers,
//	    Footers:  pkg.Footers,
//	    Notes:    pkg.Document.Notes,
//	    Comments: pkg.Document.Comments,
//	}, htmldoc.Options{Title: "Report"})
//
// # Formatting
//
// Paragraphs render as div elements, or h1 to h6 for headings, with their
// alignment, indentation and spacing as inline CSS. Runs render as spans.
// A toggle that is explicitly off renders its CSS reset (font-weight:
// normal, font-style: normal) so that it cancels formatting inherited from
// the paragraph's style.
//
// List labels are computed while rendering, so the same list continues
// across pages. Notes are numbered in reference order and listed after the
// last page, followed by the comments.
package htmldoc
