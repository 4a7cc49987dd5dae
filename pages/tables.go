package pages

import (
	"slices"

	"github.com/tsawler/folio/model"
)

// splitTable splits t at the first row holding a page break. A row whose
// marked cells all break before any content starts the new page whole;
// Word marks only the first cell of such a row. Rows before resume are
// repeated headers already placed on the current page and are not
// scanned, and breaks at the start of the cells of row resume are ignored.
// next is the index of the first row of after that is not a repeated
// header.
//
// Tables whose children are not all rows are never split.
func splitTable(t *model.Table, resume int, repeatHeaders bool) (before, after *model.Table, next int, ok bool) {
	rows, valid := tableRows(t)
	if !valid {
		return nil, nil, 0, false
	}
	for i, row := range rows {
		if i < resume {
			continue
		}
		cells := make([]cellSplit, len(row.Children))
		found, whole := false, true
		for j, c := range row.Children {
			cell := c.(*model.TableCell)
			b, a, ok := splitBlocks(cell.Children, i == resume)
			cells[j] = cellSplit{cell: cell, before: b, after: a, ok: ok}
			if ok {
				found = true
				whole = whole && len(b) == 0
			}
		}
		if !found {
			continue
		}
		if whole && i == 0 {
			return nil, t, 0, true
		}

		var headers []*model.TableRow
		if h := leadingHeaders(rows); repeatHeaders && h > 0 && i >= h {
			headers = rows[:h]
		}
		before, after = cut(t, rows, i, cells, whole, headers)
		return before, after, len(headers), true
	}
	return nil, nil, 0, false
}

// cellSplit is one cell of a row divided at a page break.
type cellSplit struct {
	cell          *model.TableCell
	before, after []model.Node
	ok            bool
}

func tableRows(t *model.Table) ([]*model.TableRow, bool) {
	rows := make([]*model.TableRow, 0, len(t.Children))
	for _, c := range t.Children {
		row, ok := c.(*model.TableRow)
		if !ok {
			return nil, false
		}
		for _, cc := range row.Children {
			if _, ok := cc.(*model.TableCell); !ok {
				return nil, false
			}
		}
		rows = append(rows, row)
	}
	return rows, true
}

func leadingHeaders(rows []*model.TableRow) int {
	n := 0
	for n < len(rows) && rows[n].IsHeader {
		n++
	}
	return n
}

// cut divides the table at row at. When whole is false the row itself is
// divided: its leading fragments end the first table and a synthetic row
// built from its trailing fragments starts the continuation.
func cut(t *model.Table, rows []*model.TableRow, at int, cells []cellSplit, whole bool, headers []*model.TableRow) (*model.Table, *model.Table) {
	head := make([]*model.TableRow, 0, at+1)
	for _, row := range rows[:at] {
		head = append(head, cloneRow(row))
	}

	var first *model.TableRow
	if whole {
		first = cloneRow(rows[at])
	} else {
		upper := cloneRow(rows[at])
		first = cloneRow(rows[at])
		for j, cs := range cells {
			top, bottom := *cs.cell, *cs.cell
			if cs.ok {
				top.Children = cs.before
				bottom.Children = cs.after
			} else {
				top.Children = slices.Clone(cs.cell.Children)
				bottom.Children = []model.Node{}
			}
			if top.Children == nil {
				top.Children = []model.Node{}
			}
			top.RowSpan = 1
			upper.Children[j] = &top
			first.Children[j] = &bottom
		}
		head = append(head, upper)
	}

	carryMerges(rows, at, head, first)

	tail := make([]*model.TableRow, 0, len(headers)+len(rows)-at)
	for _, h := range headers {
		tail = append(tail, cloneRow(h))
	}
	tail = append(tail, first)
	for _, row := range rows[at+1:] {
		tail = append(tail, cloneRow(row))
	}
	return withRows(t, head), withRows(t, tail)
}

// carryMerges cuts vertical merges that cross the split. A cell above row
// at that spans into it is shortened in the first table, and an empty cell
// covering the rest of the span is placed in the continuation's first row.
func carryMerges(rows []*model.TableRow, at int, head []*model.TableRow, first *model.TableRow) {
	columns := gridColumns(rows)
	type placeholder struct {
		column int
		cell   model.Node
	}
	var carried []placeholder
	overlap := 0
	if len(head) > at {
		overlap = 1
	}

	for r := 0; r < at; r++ {
		for j, c := range rows[r].Children {
			cell := c.(*model.TableCell)
			if r+cell.RowSpan <= at {
				continue
			}
			short := *cell
			short.RowSpan = at - r + overlap
			head[r].Children[j] = &short

			rest := *cell
			rest.Children = []model.Node{}
			rest.RowSpan = r + cell.RowSpan - at
			carried = append(carried, placeholder{column: columns[r][j], cell: &rest})
		}
	}
	if len(carried) == 0 {
		return
	}
	slices.SortStableFunc(carried, func(a, b placeholder) int { return a.column - b.column })

	merged := make([]model.Node, 0, len(first.Children)+len(carried))
	k := 0
	for j, c := range first.Children {
		for k < len(carried) && carried[k].column < columns[at][j] {
			merged = append(merged, carried[k].cell)
			k++
		}
		merged = append(merged, c)
	}
	for ; k < len(carried); k++ {
		merged = append(merged, carried[k].cell)
	}
	first.Children = merged
}

// gridColumns returns the grid column where each cell starts, row by row,
// skipping columns covered by cells merged down from earlier rows.
func gridColumns(rows []*model.TableRow) [][]int {
	var covered []int
	out := make([][]int, len(rows))
	for r, row := range rows {
		cols := make([]int, len(row.Children))
		col := 0
		for j, c := range row.Children {
			cell := c.(*model.TableCell)
			for col < len(covered) && covered[col] > 0 {
				col++
			}
			cols[j] = col
			span := max(cell.ColSpan, 1)
			for len(covered) < col+span {
				covered = append(covered, 0)
			}
			for k := col; k < col+span; k++ {
				covered[k] = max(cell.RowSpan, 1)
			}
			col += span
		}
		for k := range covered {
			if covered[k] > 0 {
				covered[k]--
			}
		}
		out[r] = cols
	}
	return out
}

func cloneRow(row *model.TableRow) *model.TableRow {
	out := *row
	out.Children = slices.Clone(row.Children)
	if out.Children == nil {
		out.Children = []model.Node{}
	}
	return &out
}

func withRows(t *model.Table, rows []*model.TableRow) *model.Table {
	out := *t
	out.Children = make([]model.Node, len(rows))
	for i, r := range rows {
		out.Children[i] = r
	}
	return &out
}
