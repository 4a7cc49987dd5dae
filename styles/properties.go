package styles

import (
	"strconv"
	"strings"

	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/xmlnode"
)

// ParseTwips parses a measurement in twips and returns points.
// 1 point = 20 twips.
func ParseTwips(s string) (float64, bool) {
	val, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return val / 20, true
}

// ParseHalfPoints parses a size in half-points to points.
// Word uses half-points for font sizes (e.g., "24" = 12pt).
func ParseHalfPoints(s string) (float64, bool) {
	val, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || val <= 0 {
		return 0, false
	}
	return val / 2, true
}

// ReadToggle reads an on/off element such as w:b. A missing element
// inherits; a present element is On unless its w:val says otherwise.
func ReadToggle(el *xmlnode.Element) model.Toggle {
	if el.IsEmpty() {
		return model.Inherit
	}
	switch strings.ToLower(el.Attr("w:val")) {
	case "0", "false", "off":
		return model.Off
	default:
		return model.On
	}
}

func val(el *xmlnode.Element, child string) string {
	return el.FirstOrEmpty(child).Attr("w:val")
}

func twipsAttr(el *xmlnode.Element, attr string) model.Opt[float64] {
	if !el.HasAttr(attr) {
		return model.Opt[float64]{}
	}
	if pt, ok := ParseTwips(el.Attr(attr)); ok {
		return model.Some(pt)
	}
	return model.Opt[float64]{}
}

func firstAttr(el *xmlnode.Element, attrs ...string) string {
	for _, a := range attrs {
		if v := el.Attr(a); v != "" {
			return v
		}
	}
	return ""
}

// ReadRunProperties reads a w:rPr element.
func ReadRunProperties(rPr *xmlnode.Element) model.RunProperties {
	if rPr.IsEmpty() {
		return model.RunProperties{}
	}
	props := model.RunProperties{
		StyleID:      val(rPr, "w:rStyle"),
		Bold:         ReadToggle(rPr.First("w:b")),
		Italic:       ReadToggle(rPr.First("w:i")),
		Strike:       ReadToggle(rPr.First("w:strike")),
		DoubleStrike: ReadToggle(rPr.First("w:dstrike")),
		Caps:         ReadToggle(rPr.First("w:caps")),
		SmallCaps:    ReadToggle(rPr.First("w:smallCaps")),
		Hidden:       ReadToggle(rPr.First("w:vanish")),
		Highlight:    val(rPr, "w:highlight"),
	}

	if u := rPr.First("w:u"); u != nil {
		props.Underline = u.Attr("w:val")
		if props.Underline == "" {
			props.Underline = "single"
		}
		if c := u.Attr("w:color"); c != "" && c != "auto" {
			props.UnderlineColor = c
		}
	}
	if fonts := rPr.First("w:rFonts"); fonts != nil {
		props.Font = firstAttr(fonts, "w:ascii", "w:hAnsi", "w:cs")
	}
	if size, ok := ParseHalfPoints(val(rPr, "w:sz")); ok {
		props.FontSize = size
	}
	if c := val(rPr, "w:color"); c != "" && c != "auto" {
		props.Color = c
	}
	if fill := rPr.FirstOrEmpty("w:shd").Attr("w:fill"); fill != "" && fill != "auto" {
		props.Shading = fill
	}
	props.VerticalAlign = val(rPr, "w:vertAlign")
	return props
}

// ReadIndent reads a w:ind element. Bidi-neutral start/end attributes take
// precedence over left/right.
func ReadIndent(ind *xmlnode.Element) model.Indent {
	if ind.IsEmpty() {
		return model.Indent{}
	}
	out := model.Indent{
		Left:      twipsAttr(ind, "w:left"),
		Right:     twipsAttr(ind, "w:right"),
		FirstLine: twipsAttr(ind, "w:firstLine"),
		Hanging:   twipsAttr(ind, "w:hanging"),
	}
	out.Left = out.Left.Override(twipsAttr(ind, "w:start"))
	out.Right = out.Right.Override(twipsAttr(ind, "w:end"))
	return out
}

// ReadSpacing reads a w:spacing element. Line spacing under the auto rule
// is a multiple of single spacing (240ths of a line).
func ReadSpacing(sp *xmlnode.Element) model.Spacing {
	if sp.IsEmpty() {
		return model.Spacing{}
	}
	out := model.Spacing{
		Before:   twipsAttr(sp, "w:before"),
		After:    twipsAttr(sp, "w:after"),
		LineRule: sp.Attr("w:lineRule"),
	}
	if line, err := strconv.ParseFloat(sp.Attr("w:line"), 64); err == nil {
		if out.LineRule == "" || out.LineRule == "auto" {
			out.Line = model.Some(line / 240)
		} else {
			out.Line = model.Some(line / 20)
		}
	}
	return out
}

// ReadNumberingRef reads a w:numPr element. A missing ilvl means level 0.
func ReadNumberingRef(numPr *xmlnode.Element) model.Opt[model.NumberingRef] {
	numID := val(numPr, "w:numId")
	if numPr.IsEmpty() || numID == "" {
		return model.Opt[model.NumberingRef]{}
	}
	level, _ := strconv.Atoi(val(numPr, "w:ilvl"))
	return model.Some(model.NumberingRef{NumID: numID, Level: level})
}

// ReadParagraphProperties reads a w:pPr element, including the run
// properties nested under it.
func ReadParagraphProperties(pPr *xmlnode.Element) model.ParagraphProperties {
	if pPr.IsEmpty() {
		return model.ParagraphProperties{}
	}
	props := model.ParagraphProperties{
		StyleID:         val(pPr, "w:pStyle"),
		Alignment:       normalizeAlignment(val(pPr, "w:jc")),
		Indent:          ReadIndent(pPr.FirstOrEmpty("w:ind")),
		Spacing:         ReadSpacing(pPr.FirstOrEmpty("w:spacing")),
		Numbering:       ReadNumberingRef(pPr.FirstOrEmpty("w:numPr")),
		KeepLines:       ReadToggle(pPr.First("w:keepLines")),
		KeepNext:        ReadToggle(pPr.First("w:keepNext")),
		PageBreakBefore: ReadToggle(pPr.First("w:pageBreakBefore")),
		Run:             ReadRunProperties(pPr.FirstOrEmpty("w:rPr")),
	}
	if lvl, err := strconv.Atoi(val(pPr, "w:outlineLvl")); err == nil {
		props.OutlineLevel = model.Some(lvl)
	}
	if fill := pPr.FirstOrEmpty("w:shd").Attr("w:fill"); fill != "" && fill != "auto" {
		props.Shading = fill
	}
	return props
}

func normalizeAlignment(jc string) string {
	switch jc {
	case "start":
		return "left"
	case "end":
		return "right"
	case "distribute":
		return "both"
	default:
		return jc
	}
}

// borderStyles maps Word border names to CSS border styles.
var borderStyles = map[string]string{
	"single":                 "solid",
	"dashDotStroked":         "dashed",
	"dashed":                 "dashed",
	"dashSmallGap":           "dashed",
	"dotDash":                "dotted",
	"dotDotDash":             "dotted",
	"dotted":                 "dotted",
	"double":                 "double",
	"doubleWave":             "double",
	"inset":                  "inset",
	"nil":                    "none",
	"none":                   "none",
	"outset":                 "outset",
	"thick":                  "solid",
	"thickThinLargeGap":      "solid",
	"thickThinMediumGap":     "solid",
	"thickThinSmallGap":      "solid",
	"thinThickLargeGap":      "solid",
	"thinThickMediumGap":     "solid",
	"thinThickSmallGap":      "solid",
	"thinThickThinLargeGap":  "solid",
	"thinThickThinMediumGap": "solid",
	"thinThickThinSmallGap":  "solid",
	"threeDEmboss":           "solid",
	"threeDEngrave":          "solid",
	"triple":                 "double",
	"wave":                   "solid",
}

// ReadBorder reads one border edge such as w:top. Sizes are eighths of a
// point.
func ReadBorder(el *xmlnode.Element) model.Opt[model.Border] {
	if el.IsEmpty() {
		return model.Opt[model.Border]{}
	}
	style, ok := borderStyles[el.Attr("w:val")]
	if !ok {
		style = "solid"
	}
	b := model.Border{Style: style, Color: el.Attr("w:color")}
	if b.Color == "" || b.Color == "auto" {
		b.Color = "000000"
	}
	if sz, err := strconv.ParseFloat(el.Attr("w:sz"), 64); err == nil {
		b.Width = sz / 8
	}
	return model.Some(b)
}

// ReadBorders reads a w:tblBorders or w:tcBorders element.
func ReadBorders(el *xmlnode.Element) model.Borders {
	if el.IsEmpty() {
		return model.Borders{}
	}
	out := model.Borders{
		Top:     ReadBorder(el.First("w:top")),
		Bottom:  ReadBorder(el.First("w:bottom")),
		Left:    ReadBorder(el.First("w:left")),
		Right:   ReadBorder(el.First("w:right")),
		InsideH: ReadBorder(el.First("w:insideH")),
		InsideV: ReadBorder(el.First("w:insideV")),
	}
	out.Left = out.Left.Override(ReadBorder(el.First("w:start")))
	out.Right = out.Right.Override(ReadBorder(el.First("w:end")))
	return out
}

// ReadMargins reads a w:tblCellMar or w:tcMar element.
func ReadMargins(el *xmlnode.Element) model.Margins {
	if el.IsEmpty() {
		return model.Margins{}
	}
	side := func(names ...string) model.Opt[float64] {
		var out model.Opt[float64]
		for _, n := range names {
			out = out.Override(twipsAttr(el.FirstOrEmpty(n), "w:w"))
		}
		return out
	}
	return model.Margins{
		Top:    side("w:top"),
		Bottom: side("w:bottom"),
		Left:   side("w:left", "w:start"),
		Right:  side("w:right", "w:end"),
	}
}

// ReadWidth reads a width element such as w:tblW or w:tcW.
func ReadWidth(el *xmlnode.Element) model.Opt[model.Width] {
	if el.IsEmpty() {
		return model.Opt[model.Width]{}
	}
	typ := el.Attr("w:type")
	raw := el.Attr("w:w")
	switch typ {
	case "auto", "nil":
		return model.Some(model.Width{Type: typ})
	case "pct":
		if strings.HasSuffix(raw, "%") {
			v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
			if err != nil {
				return model.Opt[model.Width]{}
			}
			return model.Some(model.Width{Value: v, Type: "pct"})
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Opt[model.Width]{}
		}
		// Fiftieths of a percent.
		return model.Some(model.Width{Value: v / 50, Type: "pct"})
	default:
		pt, ok := ParseTwips(raw)
		if !ok {
			return model.Opt[model.Width]{}
		}
		return model.Some(model.Width{Value: pt, Type: "dxa"})
	}
}

// tblLook bitmask values used by older producers in w:val.
const (
	lookFirstRow    = 0x0020
	lookLastRow     = 0x0040
	lookFirstColumn = 0x0080
	lookLastColumn  = 0x0100
	lookNoHBand     = 0x0200
	lookNoVBand     = 0x0400
)

// ReadTableLook reads a w:tblLook element.
func ReadTableLook(el *xmlnode.Element) model.Opt[model.TableLook] {
	if el.IsEmpty() {
		return model.Opt[model.TableLook]{}
	}
	flag := func(name string) bool {
		switch el.Attr(name) {
		case "1", "true", "on":
			return true
		}
		return false
	}
	look := model.TableLook{
		FirstRow:    flag("w:firstRow"),
		LastRow:     flag("w:lastRow"),
		FirstColumn: flag("w:firstColumn"),
		LastColumn:  flag("w:lastColumn"),
		NoHBand:     flag("w:noHBand"),
		NoVBand:     flag("w:noVBand"),
	}
	if bits, err := strconv.ParseUint(el.Attr("w:val"), 16, 32); err == nil {
		look.FirstRow = look.FirstRow || bits&lookFirstRow != 0
		look.LastRow = look.LastRow || bits&lookLastRow != 0
		look.FirstColumn = look.FirstColumn || bits&lookFirstColumn != 0
		look.LastColumn = look.LastColumn || bits&lookLastColumn != 0
		look.NoHBand = look.NoHBand || bits&lookNoHBand != 0
		look.NoVBand = look.NoVBand || bits&lookNoVBand != 0
	}
	return model.Some(look)
}

// ReadTableProperties reads a w:tblPr element.
func ReadTableProperties(tblPr *xmlnode.Element) model.TableProperties {
	if tblPr.IsEmpty() {
		return model.TableProperties{}
	}
	props := model.TableProperties{
		StyleID:     val(tblPr, "w:tblStyle"),
		Alignment:   normalizeAlignment(val(tblPr, "w:jc")),
		Indent:      twipsAttr(tblPr.FirstOrEmpty("w:tblInd"), "w:w"),
		Width:       ReadWidth(tblPr.First("w:tblW")),
		CellSpacing: twipsAttr(tblPr.FirstOrEmpty("w:tblCellSpacing"), "w:w"),
		CellMargins: ReadMargins(tblPr.First("w:tblCellMar")),
		Borders:     ReadBorders(tblPr.First("w:tblBorders")),
		Look:        ReadTableLook(tblPr.First("w:tblLook")),
		Caption:     val(tblPr, "w:tblCaption"),
	}
	if fill := tblPr.FirstOrEmpty("w:shd").Attr("w:fill"); fill != "" && fill != "auto" {
		props.Shading = fill
	}
	if n, err := strconv.Atoi(val(tblPr, "w:tblStyleRowBandSize")); err == nil && n > 0 {
		props.RowBandSize = model.Some(n)
	}
	if n, err := strconv.Atoi(val(tblPr, "w:tblStyleColBandSize")); err == nil && n > 0 {
		props.ColBandSize = model.Some(n)
	}
	return props
}

// ReadRowProperties reads a w:trPr element.
func ReadRowProperties(trPr *xmlnode.Element) model.RowProperties {
	if trPr.IsEmpty() {
		return model.RowProperties{}
	}
	props := model.RowProperties{
		Header:    ReadToggle(trPr.First("w:tblHeader")),
		CantSplit: ReadToggle(trPr.First("w:cantSplit")),
		Alignment: normalizeAlignment(val(trPr, "w:jc")),
	}
	if h := trPr.First("w:trHeight"); h != nil {
		props.Height = twipsAttr(h, "w:val")
		props.HeightRule = h.Attr("w:hRule")
	}
	return props
}

// ReadCellProperties reads a w:tcPr element. Spans and merges are handled by
// the table reader.
func ReadCellProperties(tcPr *xmlnode.Element) model.CellProperties {
	if tcPr.IsEmpty() {
		return model.CellProperties{}
	}
	props := model.CellProperties{
		Borders:       ReadBorders(tcPr.First("w:tcBorders")),
		Margins:       ReadMargins(tcPr.First("w:tcMar")),
		Width:         ReadWidth(tcPr.First("w:tcW")),
		VerticalAlign: val(tcPr, "w:vAlign"),
		NoWrap:        ReadToggle(tcPr.First("w:noWrap")),
	}
	if fill := tcPr.FirstOrEmpty("w:shd").Attr("w:fill"); fill != "" && fill != "auto" {
		props.Shading = fill
	}
	return props
}

// ReadRegionProperties reads the property elements of a table style or of
// one of its w:tblStylePr regions.
func ReadRegionProperties(el *xmlnode.Element) model.RegionProperties {
	return model.RegionProperties{
		Table:     ReadTableProperties(el.FirstOrEmpty("w:tblPr")),
		Row:       ReadRowProperties(el.FirstOrEmpty("w:trPr")),
		Cell:      ReadCellProperties(el.FirstOrEmpty("w:tcPr")),
		Paragraph: ReadParagraphProperties(el.FirstOrEmpty("w:pPr")),
		Run:       ReadRunProperties(el.FirstOrEmpty("w:rPr")),
	}
}
