package scanner

import (
	"context"
	"strings"

	"github.com/beltran/gohive"
)

type hiveRowsScanner struct {
	ctx     context.Context
	cursor  *gohive.Cursor
	columns []Column
}

// FromHiveCursor creates a Rows cursor over an executed Hive query.
func FromHiveCursor(ctx context.Context, cursor *gohive.Cursor) Rows {
	return &hiveRowsScanner{ctx: ctx, cursor: cursor}
}

func (h *hiveRowsScanner) Next() bool {
	return h.cursor.HasMore(h.ctx)
}

func (h *hiveRowsScanner) ScanRow() ([]any, error) {
	if h.columns == nil {
		if _, err := h.Columns(); err != nil {
			return nil, err
		}
	}
	row := make([]any, len(h.columns))
	ptrs := make([]any, len(h.columns))
	for i := range row {
		ptrs[i] = &row[i]
	}
	h.cursor.FetchOne(h.ctx, ptrs...)
	if h.cursor.Err != nil {
		return nil, h.cursor.Err
	}
	return row, nil
}

// Columns reads the cursor description. Hive reports names as table.column
// and types with a _TYPE suffix; both are trimmed.
func (h *hiveRowsScanner) Columns() ([]Column, error) {
	if h.columns != nil {
		return h.columns, nil
	}
	for _, c := range h.cursor.Description() {
		if len(c) == 0 {
			continue
		}
		col := &describedColumn{name: c[0]}
		if len(c) > 1 {
			col.typeName = strings.TrimSuffix(c[1], "_TYPE")
		}
		if _, name, ok := strings.Cut(col.name, "."); ok {
			col.name = name
		}
		h.columns = append(h.columns, col)
	}
	return h.columns, nil
}

func (h *hiveRowsScanner) Driver() string {
	return "gohive"
}

func (h *hiveRowsScanner) Err() error {
	return h.cursor.Error()
}
