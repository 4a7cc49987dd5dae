// Package pages groups a built document tree into pages.
//
// Word does not store page boundaries, but the application that last saved
// a document marks every run that started a new page. The docx builder
// turns those markers into [model.Run.PageBreakBefore], and [Paginate]
// regroups the top-level nodes of the body around them:
//
//	pkg, _ := docx.Open("report.docx", docx.Options{})
//	for _, page := range pages.Paginate(pkg.Document.Children) {
//	    fmt.Println(page.Index, page.ExtractText())
//	}
//
// # Splitting
//
// A paragraph that crosses a page boundary is split in two. The part
// before the marked run stays on the current page; the rest is a copy of
// the paragraph, without first-line or hanging indent, that opens the next
// page. A paragraph may cross several pages.
//
// Tables split between rows. A row whose cells all start on the new page
// moves to a continuation table together with the rows that follow it.
// When only some cells continue, the row itself is split: the continuation
// table starts with a synthetic row built from the trailing fragments of
// each cell. Leading header rows are repeated at the top of every
// continuation table.
//
// # Sections
//
// Section properties end a range of pages. Every page from the previous
// section boundary through the page holding the section properties is
// stamped with them, so each page carries its own geometry and header and
// footer references.
//
// Paginate never modifies its input. Split nodes are copies; nodes that
// are not split appear on the pages unchanged.
package pages
