package sheetbook

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/go-data-exporter/bookexport/column"
)

func TestExcelizeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	b, err := New(NewExcelizeWorkbook(), &buf,
		WithMaxRowsPerSheet(4),
		WithStyler(HeaderStyler{ColumnWidth: 18, FreezeHeader: true}),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer b.Close()

	if err := b.SetColumns(cols); err != nil {
		t.Fatalf("SetColumns failed: %v", err)
	}
	if err := b.AddRows(makeRows(0, 10)); err != nil {
		t.Fatalf("AddRows failed: %v", err)
	}
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("invalid workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 {
		t.Fatalf("expected 3 sheets, got %v", sheets)
	}
	next := 0
	for i, name := range sheets {
		if name != DefaultSheetNamePrefix+strconv.Itoa(i+1) {
			t.Errorf("unexpected sheet name %q", name)
		}
		rows, err := f.GetRows(name)
		if err != nil {
			t.Fatalf("GetRows(%s): %v", name, err)
		}
		if rows[0][0] != "ID" || rows[0][1] != "Name" {
			t.Errorf("sheet %s header = %v", name, rows[0])
		}
		if len(rows)-1 > 4 {
			t.Errorf("sheet %s holds %d data rows", name, len(rows)-1)
		}
		for _, r := range rows[1:] {
			if r[1] != "n"+strconv.Itoa(next) {
				t.Errorf("sheet %s: got %v, want n%d", name, r, next)
			}
			next++
		}
	}
	if next != 10 {
		t.Errorf("read back %d rows, want 10", next)
	}

	// Integer columns are stored as numbers, not text.
	typ, err := f.GetCellType(sheets[0], "A2")
	if err != nil {
		t.Fatal(err)
	}
	if typ == excelize.CellTypeInlineString || typ == excelize.CellTypeSharedString {
		t.Errorf("A2 stored as string")
	}
}

func TestExcelizeTotalsDetection(t *testing.T) {
	wb := NewExcelizeWorkbook()
	var buf bytes.Buffer
	b, err := New(wb, &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	b.SetColumns([]column.Descriptor{{Field: "a"}, {Field: "b"}})
	if has, _ := wb.RowHasValues("Sheet 1", 2, 2); has {
		t.Fatal("row 2 should be empty")
	}
	b.SetTotals([]any{nil, "sum"})
	if has, _ := wb.RowHasValues("Sheet 1", 2, 2); !has {
		t.Fatal("row 2 should hold totals")
	}
	b.AddRows(makeRows(0, 1))
	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	v, _ := f.GetCellValue("Sheet 1", "B3")
	if v != "n0" {
		t.Errorf("B3 = %q, want n0", v)
	}
}

func TestExcelizeLongestSheetPrefix(t *testing.T) {
	prefix := strings.Repeat("p", MaxSheetNamePrefixLength)
	var buf bytes.Buffer
	b, err := New(NewExcelizeWorkbook(), &buf, WithMaxRowsPerSheet(1), WithSheetNamePrefix(prefix))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer b.Close()
	b.SetColumns(cols)
	if err := b.AddRows(makeRows(0, 12)); err != nil {
		t.Fatalf("AddRows failed: %v", err)
	}
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("invalid workbook: %v", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) != 12 || sheets[11] != prefix+"12" {
		t.Errorf("sheets = %v", sheets)
	}
}
