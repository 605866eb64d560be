package sheetbook

const (
	headerRow = 1
	totalsRow = 2
)

// cursor is the insertion position within the current sheet. Its methods
// are pure so the rollover boundaries can be tested without a workbook.
type cursor struct {
	sheet int // 1-based index of the current sheet
	row   int // next row to write; 0 until the sheet's first data row is located
	rows  int // data rows written to the current sheet
}

// located reports whether the first data row of the sheet is known.
func (c cursor) located() bool {
	return c.row != 0
}

// full reports whether the current sheet already holds limit data rows.
func (c cursor) full(limit int) bool {
	return c.rows >= limit
}

// start places the cursor on the first data row. A populated totals row
// pushes data down by one.
func (c cursor) start(hasTotals bool) cursor {
	c.row = totalsRow
	if hasTotals {
		c.row = totalsRow + 1
	}
	return c
}

// advance moves past one written data row.
func (c cursor) advance() cursor {
	c.row++
	c.rows++
	return c
}

// rollover moves to the next, not yet located, sheet.
func (c cursor) rollover() cursor {
	return cursor{sheet: c.sheet + 1}
}

// SheetsNeeded returns how many sheets n data rows occupy at limit rows per
// sheet. Zero rows still occupy the first sheet.
func SheetsNeeded(n, limit int) int {
	if n <= limit || limit <= 0 {
		return 1
	}
	return (n + limit - 1) / limit
}
