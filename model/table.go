package model

import "strings"

// Border is one cell or table edge.
type Border struct {
	Style string  // CSS border style
	Width float64 // points
	Color string
}

// Borders are the edges of a table or cell.
type Borders struct {
	Top     Opt[Border]
	Bottom  Opt[Border]
	Left    Opt[Border]
	Right   Opt[Border]
	InsideH Opt[Border]
	InsideV Opt[Border]
}

// Merge applies the set edges of over.
func (b Borders) Merge(over Borders) Borders {
	return Borders{
		Top:     b.Top.Override(over.Top),
		Bottom:  b.Bottom.Override(over.Bottom),
		Left:    b.Left.Override(over.Left),
		Right:   b.Right.Override(over.Right),
		InsideH: b.InsideH.Override(over.InsideH),
		InsideV: b.InsideV.Override(over.InsideV),
	}
}

// Margins are cell paddings in points.
type Margins struct {
	Top    Opt[float64]
	Bottom Opt[float64]
	Left   Opt[float64]
	Right  Opt[float64]
}

// Merge applies the set sides of over.
func (m Margins) Merge(over Margins) Margins {
	return Margins{
		Top:    m.Top.Override(over.Top),
		Bottom: m.Bottom.Override(over.Bottom),
		Left:   m.Left.Override(over.Left),
		Right:  m.Right.Override(over.Right),
	}
}

// Width is a measurement with a unit: "dxa" widths are converted to points,
// "pct" widths are percentages, "auto" has no value.
type Width struct {
	Value float64
	Type  string
}

// TableLook selects which conditional regions of a table style apply.
type TableLook struct {
	FirstRow    bool
	LastRow     bool
	FirstColumn bool
	LastColumn  bool
	NoHBand     bool
	NoVBand     bool
}

// DefaultTableLook is what Word assumes when a table declares no tblLook.
var DefaultTableLook = TableLook{FirstRow: true, FirstColumn: true, NoVBand: true}

// TableProperties are table-level formatting properties.
type TableProperties struct {
	StyleID     string
	Alignment   string
	Indent      Opt[float64]
	Width       Opt[Width]
	CellSpacing Opt[float64]
	CellMargins Margins
	Borders     Borders
	Look        Opt[TableLook]
	Caption     string
	Shading     string
	RowBandSize Opt[int]
	ColBandSize Opt[int]
}

// Merge applies the set properties of over.
func (t TableProperties) Merge(over TableProperties) TableProperties {
	return TableProperties{
		StyleID:     pick(t.StyleID, over.StyleID),
		Alignment:   pick(t.Alignment, over.Alignment),
		Indent:      t.Indent.Override(over.Indent),
		Width:       t.Width.Override(over.Width),
		CellSpacing: t.CellSpacing.Override(over.CellSpacing),
		CellMargins: t.CellMargins.Merge(over.CellMargins),
		Borders:     t.Borders.Merge(over.Borders),
		Look:        t.Look.Override(over.Look),
		Caption:     pick(t.Caption, over.Caption),
		Shading:     pick(t.Shading, over.Shading),
		RowBandSize: t.RowBandSize.Override(over.RowBandSize),
		ColBandSize: t.ColBandSize.Override(over.ColBandSize),
	}
}

// RowProperties are row-level formatting properties.
type RowProperties struct {
	Header     Toggle
	CantSplit  Toggle
	Height     Opt[float64]
	HeightRule string
	Alignment  string
}

// Merge applies the set properties of over.
func (r RowProperties) Merge(over RowProperties) RowProperties {
	return RowProperties{
		Header:     r.Header.Override(over.Header),
		CantSplit:  r.CantSplit.Override(over.CantSplit),
		Height:     r.Height.Override(over.Height),
		HeightRule: pick(r.HeightRule, over.HeightRule),
		Alignment:  pick(r.Alignment, over.Alignment),
	}
}

// CellProperties are cell-level formatting properties.
type CellProperties struct {
	Borders       Borders
	Margins       Margins
	Width         Opt[Width]
	VerticalAlign string
	Shading       string
	NoWrap        Toggle
}

// Merge applies the set properties of over.
func (c CellProperties) Merge(over CellProperties) CellProperties {
	return CellProperties{
		Borders:       c.Borders.Merge(over.Borders),
		Margins:       c.Margins.Merge(over.Margins),
		Width:         c.Width.Override(over.Width),
		VerticalAlign: pick(c.VerticalAlign, over.VerticalAlign),
		Shading:       pick(c.Shading, over.Shading),
		NoWrap:        c.NoWrap.Override(over.NoWrap),
	}
}

// Region is a conditional-formatting region of a table style.
type Region uint8

const (
	RegionWholeTable Region = iota
	RegionFirstRow
	RegionLastRow
	RegionFirstCol
	RegionLastCol
	RegionBand1Vert
	RegionBand2Vert
	RegionBand1Horz
	RegionBand2Horz
	RegionNECell
	RegionNWCell
	RegionSECell
	RegionSWCell
	regionCount
)

var regionNames = [regionCount]string{
	"wholeTable", "firstRow", "lastRow", "firstCol", "lastCol",
	"band1Vert", "band2Vert", "band1Horz", "band2Horz",
	"neCell", "nwCell", "seCell", "swCell",
}

func (r Region) String() string {
	if r < regionCount {
		return regionNames[r]
	}
	return "unknown"
}

// ParseRegion maps a w:tblStylePr type to a Region.
func ParseRegion(s string) (Region, bool) {
	for i, name := range regionNames {
		if name == s {
			return Region(i), true
		}
	}
	return 0, false
}

// RegionProperties are the properties a table style contributes to one
// region.
type RegionProperties struct {
	Table     TableProperties
	Row       RowProperties
	Cell      CellProperties
	Paragraph ParagraphProperties
	Run       RunProperties
}

// Merge applies the set properties of over.
func (r RegionProperties) Merge(over RegionProperties) RegionProperties {
	return RegionProperties{
		Table:     r.Table.Merge(over.Table),
		Row:       r.Row.Merge(over.Row),
		Cell:      r.Cell.Merge(over.Cell),
		Paragraph: r.Paragraph.Merge(over.Paragraph),
		Run:       r.Run.Merge(over.Run),
	}
}

// TableStyle is a table style decomposed into its base properties and
// per-region overrides.
type TableStyle struct {
	Base    RegionProperties
	regions [regionCount]RegionProperties
	present [regionCount]bool
}

// Region returns the overrides for r and whether the style declares them.
func (t TableStyle) Region(r Region) (RegionProperties, bool) {
	if r >= regionCount {
		return RegionProperties{}, false
	}
	return t.regions[r], t.present[r]
}

// WithRegion returns a copy of t with the overrides for r replaced.
func (t TableStyle) WithRegion(r Region, props RegionProperties) TableStyle {
	if r < regionCount {
		t.regions[r] = props
		t.present[r] = true
	}
	return t
}

// Merge applies over on top of t, region by region.
func (t TableStyle) Merge(over TableStyle) TableStyle {
	out := t
	out.Base = t.Base.Merge(over.Base)
	for i := range over.regions {
		if !over.present[i] {
			continue
		}
		out.regions[i] = t.regions[i].Merge(over.regions[i])
		out.present[i] = true
	}
	return out
}

// Table is a table node. Its children are *TableRow values.
type Table struct {
	Children   []Node
	Properties TableProperties
	Style      TableStyle
	Grid       []float64 // column widths in points
}

func (*Table) Type() NodeType         { return NodeTable }
func (t *Table) GetChildren() []Node { return t.Children }

// Rows returns the table's rows.
func (t *Table) Rows() []*TableRow {
	rows := make([]*TableRow, 0, len(t.Children))
	for _, c := range t.Children {
		if r, ok := c.(*TableRow); ok {
			rows = append(rows, r)
		}
	}
	return rows
}

// GetText returns the table's text, one line per row and cells separated by
// tabs.
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows() {
		for j, cell := range row.Children {
			sb.WriteString(strings.TrimRight(TextOf(cell), "\n"))
			if j < len(row.Children)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// TableRow is a table row. Its children are *TableCell values.
type TableRow struct {
	Children   []Node
	Properties RowProperties
	IsHeader   bool
}

func (*TableRow) Type() NodeType         { return NodeTableRow }
func (r *TableRow) GetChildren() []Node { return r.Children }

// TableCell is a table cell.
type TableCell struct {
	Children   []Node
	Properties CellProperties
	// Region properties selected for this cell; cell content inherits
	// Paragraph and Run from it.
	Conditional   RegionProperties
	ColSpan       int
	RowSpan       int
	MergeContinue bool // vMerge continuation, cleared by reconciliation
}

func (*TableCell) Type() NodeType         { return NodeTableCell }
func (c *TableCell) GetChildren() []Node { return c.Children }
