package model

import "strings"

// HeaderFooterRefs are the relationship ids of a section's headers or
// footers by type.
type HeaderFooterRefs struct {
	Default string
	First   string
	Even    string
}

// PageMargins are section margins in points.
type PageMargins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
	Header float64
	Footer float64
	Gutter float64
}

// SectionProperties describe the geometry of a run of pages.
type SectionProperties struct {
	PageWidth   float64 // points
	PageHeight  float64
	Orientation string // portrait or landscape
	Margins     PageMargins
	Headers     HeaderFooterRefs
	Footers     HeaderFooterRefs
	TitlePage   bool
	Columns     int
	BreakType   string // nextPage, continuous, evenPage, oddPage
}

func (*SectionProperties) Type() NodeType { return NodeSectionProperties }

// Page is one page of output.
type Page struct {
	Index    int // 0-based
	Children []Node
	Section  *SectionProperties
}

// NewPage creates an empty page.
func NewPage(index int) *Page {
	return &Page{Index: index, Children: make([]Node, 0)}
}

// AddNode appends a top-level node to the page.
func (p *Page) AddNode(n Node) {
	p.Children = append(p.Children, n)
}

// IsEmpty reports whether the page has no content.
func (p *Page) IsEmpty() bool {
	return len(p.Children) == 0
}

// ExtractText concatenates the text of all nodes on the page.
func (p *Page) ExtractText() string {
	return strings.TrimRight(TextOfAll(p.Children), "\n")
}

// ExtractTables returns all tables on the page.
func (p *Page) ExtractTables() []*Table {
	var tables []*Table
	for _, n := range p.Children {
		if t, ok := n.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// HeaderID returns the relationship id of the header for this page:
// the first-page header on page 0 when the section declares one, the
// default header otherwise.
func (p *Page) HeaderID() string {
	if p.Section == nil {
		return ""
	}
	return pickRef(p.Index, p.Section.Headers)
}

// FooterID is HeaderID for footers.
func (p *Page) FooterID() string {
	if p.Section == nil {
		return ""
	}
	return pickRef(p.Index, p.Section.Footers)
}

func pickRef(index int, refs HeaderFooterRefs) string {
	if index == 0 && refs.First != "" {
		return refs.First
	}
	return refs.Default
}
