package docx

import (
	"strconv"

	"github.com/tsawler/folio/diag"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/styles"
	"github.com/tsawler/folio/xmlnode"
)

// tableContext is the state of the table being read.
type tableContext struct {
	style   model.TableStyle
	props   model.TableProperties
	look    model.TableLook
	rows    int
	columns int

	row    int // index of the row being read
	column int // grid column of the next cell in the row
	// rowRegion is the merged style of the row-level regions that apply to
	// the current row.
	rowRegion model.RegionProperties
}

func (b *Builder) readTable(el *xmlnode.Element) readResult {
	inline := styles.ReadTableProperties(el.FirstOrEmpty("w:tblPr"))
	style := b.styles.TableStyle(inline.StyleID)
	ts := style.Value.Table

	props := ts.Base.Table.Merge(inline)
	props.StyleID = style.Value.ID
	grid := readGrid(el.FirstOrEmpty("w:tblGrid"))

	ctx := &tableContext{
		style:   ts,
		props:   props,
		look:    props.Look.Or(model.DefaultTableLook),
		columns: len(grid),
	}
	var rowEls []*xmlnode.Element
	for _, c := range el.ChildElements() {
		if c.Name == "w:tr" {
			rowEls = append(rowEls, c)
		}
	}
	ctx.rows = len(rowEls)
	if ctx.columns == 0 && len(rowEls) > 0 {
		ctx.columns = countColumns(rowEls[0])
	}

	saved, savedRegion := b.table, b.region
	b.table = ctx
	b.region = model.RegionProperties{}
	children := b.readChildrenExcept(el, "w:tblPr")
	b.table, b.region = saved, savedRegion

	rows, warnings := reconcileMerges(children.nodes)
	table := &model.Table{
		Children:   rows,
		Properties: props,
		Style:      ts,
		Grid:       grid,
	}
	if table.Children == nil {
		table.Children = []model.Node{}
	}
	out := readResult{nodes: []model.Node{table}, extra: children.extra}
	out.warnings = append(append(style.Warnings, children.warnings...), warnings...)
	return out
}

func readGrid(el *xmlnode.Element) []float64 {
	var grid []float64
	for _, col := range el.ChildElements() {
		if col.Name != "w:gridCol" {
			continue
		}
		w, _ := styles.ParseTwips(col.Attr("w:w"))
		grid = append(grid, w)
	}
	return grid
}

func countColumns(tr *xmlnode.Element) int {
	n := 0
	for _, tc := range tr.ChildElements() {
		if tc.Name == "w:tc" {
			n += gridSpan(tc.FirstOrEmpty("w:tcPr"))
		}
	}
	return n
}

func gridSpan(tcPr *xmlnode.Element) int {
	n, err := strconv.Atoi(tcPr.FirstOrEmpty("w:gridSpan").Attr("w:val"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (b *Builder) readTableRow(el *xmlnode.Element) readResult {
	ctx := b.table
	if ctx == nil {
		ctx = &tableContext{look: model.DefaultTableLook, rows: 1}
		b.table = ctx
		defer func() { b.table = nil }()
	}
	trPr := el.FirstOrEmpty("w:trPr")
	inline := styles.ReadRowProperties(trPr)

	ctx.column = 0
	ctx.rowRegion = ctx.rowRegions()
	props := ctx.style.Base.Row.Merge(ctx.rowRegion.Row).Merge(inline)

	children := b.readChildrenExcept(el, "w:trPr")
	ctx.row++

	row := &model.TableRow{
		Children:   children.nodes,
		Properties: props,
		IsHeader:   props.Header.Enabled(),
	}
	if row.Children == nil {
		row.Children = []model.Node{}
	}
	return readResult{nodes: []model.Node{row}, extra: children.extra, warnings: children.warnings}
}

func (b *Builder) readTableCell(el *xmlnode.Element) readResult {
	ctx := b.table
	if ctx == nil {
		ctx = &tableContext{look: model.DefaultTableLook, rows: 1}
	}
	tcPr := el.FirstOrEmpty("w:tcPr")
	span := gridSpan(tcPr)
	col := ctx.column
	ctx.column += span

	conditional := ctx.cellRegion(col, span)
	props := ctx.edgeProperties(col, span).
		Merge(conditional.Cell).
		Merge(styles.ReadCellProperties(tcPr))

	savedRegion := b.region
	b.region = conditional
	children := b.readChildrenExcept(el, "w:tcPr")
	b.region = savedRegion

	cell := &model.TableCell{
		Children:      children.nodes,
		Properties:    props,
		Conditional:   conditional,
		ColSpan:       span,
		RowSpan:       1,
		MergeContinue: readVMerge(tcPr),
	}
	if cell.Children == nil {
		cell.Children = []model.Node{}
	}
	return readResult{nodes: []model.Node{cell}, extra: children.extra, warnings: children.warnings}
}

func readVMerge(tcPr *xmlnode.Element) bool {
	el := tcPr.First("w:vMerge")
	if el == nil {
		return false
	}
	v := el.Attr("w:val")
	return v == "" || v == "continue"
}

// rowRegions merges the table style regions that apply to every cell of
// the current row: horizontal bands, then the first or last row.
func (t *tableContext) rowRegions() model.RegionProperties {
	out := t.style.Base
	apply := func(r model.Region) {
		if props, ok := t.style.Region(r); ok {
			out = out.Merge(props)
		}
	}

	first := t.look.FirstRow && t.row == 0
	last := t.look.LastRow && t.row == t.rows-1
	if !t.look.NoHBand && !first && !last {
		apply(bandRegion(t.row, t.look.FirstRow, t.props.RowBandSize.Or(1), model.RegionBand1Horz, model.RegionBand2Horz))
	}
	if first {
		apply(model.RegionFirstRow)
	}
	if last {
		apply(model.RegionLastRow)
	}
	return out
}

// cellRegion selects the region properties for the cell at grid column
// col. Word applies regions from the weakest to the strongest: whole table,
// vertical bands, horizontal bands, first and last column, first and last
// row, then the corner cells.
func (t *tableContext) cellRegion(col, span int) model.RegionProperties {
	out := t.style.Base
	apply := func(r model.Region) {
		if props, ok := t.style.Region(r); ok {
			out = out.Merge(props)
		}
	}

	firstRow := t.look.FirstRow && t.row == 0
	lastRow := t.look.LastRow && t.row == t.rows-1
	firstCol := t.look.FirstColumn && col == 0
	lastCol := t.look.LastColumn && t.columns > 0 && col+span >= t.columns

	if !t.look.NoVBand && !firstCol && !lastCol {
		apply(bandRegion(col, t.look.FirstColumn, t.props.ColBandSize.Or(1), model.RegionBand1Vert, model.RegionBand2Vert))
	}
	if !t.look.NoHBand && !firstRow && !lastRow {
		apply(bandRegion(t.row, t.look.FirstRow, t.props.RowBandSize.Or(1), model.RegionBand1Horz, model.RegionBand2Horz))
	}
	if firstCol {
		apply(model.RegionFirstCol)
	}
	if lastCol {
		apply(model.RegionLastCol)
	}
	if firstRow {
		apply(model.RegionFirstRow)
	}
	if lastRow {
		apply(model.RegionLastRow)
	}
	switch {
	case firstRow && firstCol:
		apply(model.RegionNWCell)
	case firstRow && lastCol:
		apply(model.RegionNECell)
	case lastRow && firstCol:
		apply(model.RegionSWCell)
	case lastRow && lastCol:
		apply(model.RegionSECell)
	}
	return out
}

// bandRegion picks the odd or even band for a row or column index. A
// header row or column does not count towards banding.
func bandRegion(index int, skipFirst bool, size int, odd, even model.Region) model.Region {
	if skipFirst {
		index--
	}
	if size < 1 {
		size = 1
	}
	if (index/size)%2 == 0 {
		return odd
	}
	return even
}

// edgeProperties derives cell properties from the table: outer borders on
// outer edges, inside borders between cells, and the default cell margins.
func (t *tableContext) edgeProperties(col, span int) model.CellProperties {
	tb := t.props.Borders
	var b model.Borders
	if t.row == 0 {
		b.Top = tb.Top
	} else {
		b.Top = tb.InsideH
	}
	if t.row == t.rows-1 {
		b.Bottom = tb.Bottom
	} else {
		b.Bottom = tb.InsideH
	}
	if col == 0 {
		b.Left = tb.Left
	} else {
		b.Left = tb.InsideV
	}
	if t.columns == 0 || col+span >= t.columns {
		b.Right = tb.Right
	} else {
		b.Right = tb.InsideV
	}
	return model.CellProperties{Borders: b, Margins: t.props.CellMargins}
}

// reconcileMerges folds vertically merged cells into the cell above them.
// A continuation cell increments the RowSpan of the cell tracked at its
// grid column and is removed from its row. Rows and cells of any other
// shape leave the table untouched.
func reconcileMerges(nodes []model.Node) ([]model.Node, []diag.Warning) {
	rows := make([]*model.TableRow, 0, len(nodes))
	for _, n := range nodes {
		row, ok := n.(*model.TableRow)
		if !ok {
			return nodes, []diag.Warning{diag.Warnf("unexpected non-row element in table, cell merging may be incorrect")}
		}
		rows = append(rows, row)
	}
	for _, row := range rows {
		for _, c := range row.Children {
			if _, ok := c.(*model.TableCell); !ok {
				return nodes, []diag.Warning{diag.Warnf("unexpected non-cell element in table row, cell merging may be incorrect")}
			}
		}
	}

	tracked := make(map[int]*model.TableCell)
	for _, row := range rows {
		col := 0
		for _, c := range row.Children {
			cell := c.(*model.TableCell)
			if top, ok := tracked[col]; ok && cell.MergeContinue {
				top.RowSpan++
			} else {
				tracked[col] = cell
				cell.MergeContinue = false
			}
			col += cell.ColSpan
		}
	}

	for _, row := range rows {
		kept := row.Children[:0]
		for _, c := range row.Children {
			if !c.(*model.TableCell).MergeContinue {
				kept = append(kept, c)
			}
		}
		row.Children = kept
	}
	return nodes, nil
}
