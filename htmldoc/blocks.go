package htmldoc

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/styles"
)

var headingAtoms = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// blocks renders block-level nodes into parent.
func (r *renderer) blocks(parent *html.Node, nodes []model.Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *model.Paragraph:
			parent.AppendChild(r.paragraph(v))
		case *model.Table:
			parent.AppendChild(r.table(v))
		case *model.SectionProperties:
		case *model.Run, *model.Hyperlink, *model.Text:
			div := element(atom.Div)
			r.inline(div, []model.Node{n})
			parent.AppendChild(div)
		case model.Container:
			r.blocks(parent, v.GetChildren())
		}
	}
}

func (r *renderer) paragraph(p *model.Paragraph) *html.Node {
	tag := atom.Div
	if level := styles.HeadingLevel(p.Properties); level >= 1 && level <= len(headingAtoms) {
		tag = headingAtoms[level-1]
	}
	el := element(tag)
	if p.Properties.StyleID != "" {
		setAttr(el, "data-style", p.Properties.StyleID)
	}
	setStyle(el, paragraphStyle(p.Properties))

	if p.Numbering != nil {
		el.AppendChild(r.label(p))
	}
	r.inline(el, p.Children)
	if !hasVisibleContent(el) {
		el.AppendChild(element(atom.Br))
	}
	return el
}

// label renders the list label of a numbered paragraph in the paragraph's
// run formatting. A tab suffix pads the label to the hanging indent.
func (r *renderer) label(p *model.Paragraph) *html.Node {
	lvl := *p.Numbering
	span := element(atom.Span, "class", "list-label")
	d := runStyle(p.Properties.Run)
	// Bullet glyphs are already mapped out of symbol fonts.
	if lvl.Font != "" && lvl.Ordered {
		d.add("font-family", "'"+lvl.Font+"'")
	}

	text := r.counters.Next(lvl)
	switch lvl.Suffix {
	case model.SuffixTab:
		if hanging := p.Properties.Indent.Hanging.Value; hanging > 0 {
			d.add("min-width", pt(hanging))
		} else {
			text += "\u00a0\u00a0\u00a0\u00a0"
		}
	case model.SuffixSpace:
		text += "\u00a0"
	}
	setStyle(span, d)
	appendText(span, text)
	return span
}

func (r *renderer) table(t *model.Table) *html.Node {
	el := element(atom.Table)
	if t.Properties.StyleID != "" {
		setAttr(el, "data-style", t.Properties.StyleID)
	}
	setStyle(el, tableStyle(t))

	if t.Properties.Caption != "" {
		caption := element(atom.Caption)
		appendText(caption, t.Properties.Caption)
		el.AppendChild(caption)
	}
	if len(t.Grid) > 0 {
		group := element(atom.Colgroup)
		for _, w := range t.Grid {
			group.AppendChild(element(atom.Col, "style", "width: "+pt(w)))
		}
		el.AppendChild(group)
	}

	var head *html.Node
	body := element(atom.Tbody)
	leading := true
	for _, c := range t.Children {
		row, ok := c.(*model.TableRow)
		if !ok {
			leading = false
			body.AppendChild(r.strayRow(c, len(t.Grid)))
			continue
		}
		// Leading header rows form the table head.
		if leading && row.IsHeader {
			if head == nil {
				head = element(atom.Thead)
			}
			head.AppendChild(r.row(row, atom.Th))
			continue
		}
		leading = false
		body.AppendChild(r.row(row, atom.Td))
	}
	if head != nil {
		el.AppendChild(head)
	}
	el.AppendChild(body)
	return el
}

func (r *renderer) row(row *model.TableRow, cellTag atom.Atom) *html.Node {
	tr := element(atom.Tr)
	if h := row.Properties.Height; h.Set && h.Value > 0 {
		setStyle(tr, declarations{"height: " + pt(h.Value)})
	}
	for _, c := range row.Children {
		cell, ok := c.(*model.TableCell)
		if !ok {
			td := element(cellTag)
			r.blocks(td, []model.Node{c})
			tr.AppendChild(td)
			continue
		}
		tr.AppendChild(r.cell(cell, cellTag))
	}
	return tr
}

func (r *renderer) cell(c *model.TableCell, tag atom.Atom) *html.Node {
	td := element(tag)
	if c.ColSpan > 1 {
		setAttr(td, "colspan", strconv.Itoa(c.ColSpan))
	}
	if c.RowSpan > 1 {
		setAttr(td, "rowspan", strconv.Itoa(c.RowSpan))
	}
	setStyle(td, cellStyle(c))
	r.blocks(td, c.Children)
	if td.FirstChild == nil {
		appendText(td, "\u00a0")
	}
	return td
}

// strayRow wraps a non-row table child in a full-width row so its content
// is not lost.
func (r *renderer) strayRow(n model.Node, columns int) *html.Node {
	tr := element(atom.Tr)
	td := element(atom.Td)
	if columns > 1 {
		setAttr(td, "colspan", strconv.Itoa(columns))
	}
	r.blocks(td, []model.Node{n})
	tr.AppendChild(td)
	return tr
}
