package sheetbook

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/go-data-exporter/bookexport/column"
)

// ExcelizeWorkbook is a Workbook backed by an excelize file.
type ExcelizeWorkbook struct {
	f           *excelize.File
	fresh       bool
	headerStyle int
}

// NewExcelizeWorkbook creates an empty workbook. Its default sheet is
// renamed by the first AddSheet call.
func NewExcelizeWorkbook() Workbook {
	return &ExcelizeWorkbook{f: excelize.NewFile(), fresh: true}
}

func (x *ExcelizeWorkbook) AddSheet(name string) error {
	if x.fresh {
		x.fresh = false
		return x.f.SetSheetName(x.f.GetSheetName(0), name)
	}
	idx, err := x.f.NewSheet(name)
	if err != nil {
		return err
	}
	x.f.SetActiveSheet(idx)
	return nil
}

func (x *ExcelizeWorkbook) SetRow(sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return x.f.SetSheetRow(sheet, cell, &values)
}

func (x *ExcelizeWorkbook) RowHasValues(sheet string, row, width int) (bool, error) {
	for col := 1; col <= width; col++ {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return false, err
		}
		v, err := x.f.GetCellValue(sheet, cell)
		if err != nil {
			return false, err
		}
		if v != "" {
			return true, nil
		}
	}
	return false, nil
}

func (x *ExcelizeWorkbook) WriteTo(w io.Writer) (int64, error) {
	x.f.SetActiveSheet(0)
	return x.f.WriteTo(w)
}

func (x *ExcelizeWorkbook) Close() error {
	return x.f.Close()
}

// HeaderStyler bolds the header row, sets a uniform column width and
// freezes the header pane on excelize workbooks. Other workbooks are left
// untouched.
type HeaderStyler struct {
	ColumnWidth  float64
	FreezeHeader bool
}

func (s HeaderStyler) StyleSheet(wb Workbook, sheet string, cols []column.Descriptor) error {
	x, ok := wb.(*ExcelizeWorkbook)
	if !ok || len(cols) == 0 {
		return nil
	}
	if x.headerStyle == 0 {
		id, err := x.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		x.headerStyle = id
	}
	last, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	if err := x.f.SetCellStyle(sheet, "A1", last+"1", x.headerStyle); err != nil {
		return err
	}
	if s.ColumnWidth > 0 {
		if err := x.f.SetColWidth(sheet, "A", last, s.ColumnWidth); err != nil {
			return err
		}
	}
	if s.FreezeHeader {
		return x.f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}
	return nil
}
