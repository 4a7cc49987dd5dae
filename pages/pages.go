package pages

import (
	"slices"

	"github.com/tsawler/folio/model"
)

// noResume marks a node that has not been split yet.
const noResume = -1

// Paginate groups the top-level nodes of a document body into pages. The
// result always holds at least one page.
func Paginate(nodes []model.Node) []*model.Page {
	p := &paginator{current: model.NewPage(0)}
	for _, n := range nodes {
		p.add(n)
	}
	return p.finish()
}

type paginator struct {
	pages   []*model.Page
	current *model.Page
	// sectionStart is the first page not yet covered by a section.
	sectionStart int
}

// add places one top-level node, opening a new page at every page break
// it contains.
func (p *paginator) add(n model.Node) {
	resume := noResume
	for {
		before, after, next, ok := split(n, resume, true)
		if !ok {
			break
		}
		if before != nil {
			p.current.AddNode(before)
		}
		p.newPage()
		n, resume = after, next
	}
	p.current.AddNode(n)

	switch v := n.(type) {
	case *model.Paragraph:
		if v.Section != nil {
			p.endSection(v.Section)
		}
	case *model.SectionProperties:
		p.endSection(v)
	}
}

// newPage closes the current page. An empty page is kept open instead, so
// a break at the very start of the document does not produce a blank page.
func (p *paginator) newPage() {
	if p.current.IsEmpty() {
		return
	}
	p.pages = append(p.pages, p.current)
	p.current = model.NewPage(len(p.pages))
}

// endSection stamps s on every page since the previous section boundary,
// including the current one.
func (p *paginator) endSection(s *model.SectionProperties) {
	for i := p.sectionStart; i < len(p.pages); i++ {
		p.pages[i].Section = s
	}
	p.current.Section = s
	p.sectionStart = len(p.pages) + 1
}

func (p *paginator) finish() []*model.Page {
	return append(p.pages, p.current)
}

// split divides n at its first page break. The child at index resume has
// already opened the current page, so a break at its start is ignored.
// before is nil when nothing precedes the break; next is the child of
// after that opens the new page.
func split(n model.Node, resume int, repeatHeaders bool) (before, after model.Node, next int, ok bool) {
	switch v := n.(type) {
	case *model.Paragraph:
		b, a, ok := splitParagraph(v, resume)
		if !ok {
			return nil, nil, 0, false
		}
		if b == nil {
			return nil, a, 0, true
		}
		return b, a, 0, true
	case *model.Table:
		b, a, next, ok := splitTable(v, resume, repeatHeaders)
		if !ok {
			return nil, nil, 0, false
		}
		if b == nil {
			return nil, a, next, true
		}
		return b, a, next, true
	}
	return nil, nil, 0, false
}

// breakIndex returns the index of the first child carrying a page-break
// marker, looking inside hyperlinks. The child at index resume has already
// opened the current page, so a marker at its start is ignored. inner is
// the position of the marker inside a hyperlink, 0 for a run.
func breakIndex(children []model.Node, resume int) (at, inner int) {
	for i, c := range children {
		switch v := c.(type) {
		case *model.Run:
			if v.PageBreakBefore && i != resume {
				return i, 0
			}
		case *model.Hyperlink:
			for k, hc := range v.Children {
				if k == 0 && i == resume {
					continue
				}
				if r, ok := hc.(*model.Run); ok && r.PageBreakBefore {
					return i, k
				}
			}
		}
	}
	return -1, 0
}

// splitParagraph splits p before its first marked child. A break on the
// first child moves the whole paragraph, which is returned unchanged as
// after. A hyperlink holding the marker on a later run is divided into two
// hyperlinks to the same target.
func splitParagraph(p *model.Paragraph, resume int) (before, after *model.Paragraph, ok bool) {
	at, inner := breakIndex(p.Children, resume)
	switch {
	case at < 0:
		return nil, nil, false
	case at == 0 && inner == 0:
		return nil, p, true
	}

	head := *p
	head.Children = append([]model.Node(nil), p.Children[:at]...)
	head.Section = nil

	tail := *p
	tail.Children = append([]model.Node(nil), p.Children[at:]...)
	if inner > 0 {
		link := p.Children[at].(*model.Hyperlink)
		first, rest := *link, *link
		first.Children = slices.Clone(link.Children[:inner])
		rest.Children = slices.Clone(link.Children[inner:])
		head.Children = append(head.Children, &first)
		tail.Children[0] = &rest
	}
	tail.Properties.Indent.FirstLine = model.Some(0.0)
	tail.Properties.Indent.Hanging = model.Some(0.0)
	// The label belongs to the first fragment only.
	tail.Numbering = nil
	tail.Properties.Numbering = model.Opt[model.NumberingRef]{}
	return &head, &tail, true
}

// splitBlocks splits a list of block nodes, such as the content of a table
// cell, at the first page break found in any of them. skipLeading ignores
// a break at the very start of the list.
func splitBlocks(nodes []model.Node, skipLeading bool) (before, after []model.Node, ok bool) {
	for i, n := range nodes {
		resume := noResume
		if skipLeading && i == 0 {
			resume = 0
		}
		b, a, _, found := split(n, resume, false)
		if !found {
			continue
		}
		before = append([]model.Node(nil), nodes[:i]...)
		if b != nil {
			before = append(before, b)
		}
		after = append([]model.Node{a}, nodes[i+1:]...)
		return before, after, true
	}
	return nil, nil, false
}
