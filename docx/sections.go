package docx

import (
	"strconv"

	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/styles"
	"github.com/tsawler/folio/xmlnode"
)

// ReadSection reads w:sectPr. Lengths are converted to points.
func ReadSection(el *xmlnode.Element) model.SectionProperties {
	var s model.SectionProperties

	pgSz := el.FirstOrEmpty("w:pgSz")
	s.PageWidth, _ = styles.ParseTwips(pgSz.Attr("w:w"))
	s.PageHeight, _ = styles.ParseTwips(pgSz.Attr("w:h"))
	s.Orientation = pgSz.Attr("w:orient")
	if s.Orientation == "" {
		s.Orientation = "portrait"
	}

	pgMar := el.FirstOrEmpty("w:pgMar")
	s.Margins = model.PageMargins{
		Top:    twips(pgMar, "w:top"),
		Bottom: twips(pgMar, "w:bottom"),
		Left:   twips(pgMar, "w:left"),
		Right:  twips(pgMar, "w:right"),
		Header: twips(pgMar, "w:header"),
		Footer: twips(pgMar, "w:footer"),
		Gutter: twips(pgMar, "w:gutter"),
	}

	for _, c := range el.ChildElements() {
		switch c.Name {
		case "w:headerReference":
			setRef(&s.Headers, c.Attr("w:type"), c.Attr("r:id"))
		case "w:footerReference":
			setRef(&s.Footers, c.Attr("w:type"), c.Attr("r:id"))
		}
	}

	s.Columns = 1
	if n, err := strconv.Atoi(el.FirstOrEmpty("w:cols").Attr("w:num")); err == nil && n > 0 {
		s.Columns = n
	}
	s.TitlePage = styles.ReadToggle(el.First("w:titlePg")).Enabled()
	s.BreakType = el.FirstOrEmpty("w:type").Attr("w:val")
	if s.BreakType == "" {
		s.BreakType = "nextPage"
	}
	return s
}

func twips(el *xmlnode.Element, attr string) float64 {
	v, _ := styles.ParseTwips(el.Attr(attr))
	return v
}

func setRef(refs *model.HeaderFooterRefs, kind, id string) {
	switch kind {
	case "first":
		refs.First = id
	case "even":
		refs.Even = id
	default:
		refs.Default = id
	}
}
