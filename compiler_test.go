package bookexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xuri/excelize/v2"

	"github.com/go-data-exporter/bookexport/builder"
	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/exporterr"
	"github.com/go-data-exporter/bookexport/filetype"
	"github.com/go-data-exporter/bookexport/metrics"
	"github.com/go-data-exporter/bookexport/result"
	"github.com/go-data-exporter/bookexport/scanner"
)

var cols = []column.Descriptor{{Field: "id", Header: "ID", Type: column.Integer}}

func makeRecords(n int) []scanner.Record {
	out := make([]scanner.Record, n)
	for i := range out {
		out[i] = scanner.Record{"id": i}
	}
	return out
}

func readResult(t *testing.T, res result.Result) []byte {
	t.Helper()
	var buf bytes.Buffer
	if _, err := WriteTo(context.Background(), res, &buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	return buf.Bytes()
}

func openZip(t *testing.T, data []byte) *zip.Reader {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("invalid zip: %v", err)
	}
	return zr
}

func TestCalculateNumberOfBooks(t *testing.T) {
	tests := []struct {
		total, perBook, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 10, 10},
		{101, 10, 11},
		{5, 1, 5},
		{math.MaxInt, 1, math.MaxInt},
		{math.MaxInt, 10, math.MaxInt/10 + 1},
		{math.MaxInt - 1, math.MaxInt, 1},
	}
	for _, tt := range tests {
		if got := CalculateNumberOfBooks(tt.total, tt.perBook); got != tt.want {
			t.Errorf("CalculateNumberOfBooks(%d, %d) = %d, want %d", tt.total, tt.perBook, got, tt.want)
		}
	}
}

func TestCompileSplitsIntoArchive(t *testing.T) {
	c, err := NewCompiler(WithMaxRowsPerBook(10))
	if err != nil {
		t.Fatal(err)
	}
	if n := c.CalculateNumberOfBooks(100); n != 10 {
		t.Fatalf("CalculateNumberOfBooks = %d", n)
	}
	res, err := c.Compile(context.Background(), scanner.FromRecords(makeRecords(100)), "orders", 100, cols)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	defer res.Close()
	if res.FileType() != filetype.Zip || res.Count() != 10 || res.CreateFileName() != "orders.zip" {
		t.Fatalf("result = %s %d %s", res.FileType(), res.Count(), res.CreateFileName())
	}

	zr := openZip(t, readResult(t, res))
	if len(zr.File) != 10 {
		t.Fatalf("archive has %d entries", len(zr.File))
	}
	next := 0
	for i, f := range zr.File {
		if want := fmt.Sprintf("orders_%d.csv", i+1); f.Name != want {
			t.Errorf("entry %d = %s, want %s", i, f.Name, want)
		}
		rc, _ := f.Open()
		body, _ := io.ReadAll(rc)
		rc.Close()
		lines := strings.Split(strings.TrimSpace(string(body)), "\n")
		if lines[0] != "ID" || len(lines) != 11 {
			t.Fatalf("entry %s = %q", f.Name, body)
		}
		for _, l := range lines[1:] {
			if l != fmt.Sprint(next) {
				t.Fatalf("entry %s: got %s, want %d", f.Name, l, next)
			}
			next++
		}
	}
}

func TestCompileSingleBook(t *testing.T) {
	c, _ := NewCompiler(WithMaxRowsPerBook(10))
	res, err := c.Compile(context.Background(), scanner.FromRecords(makeRecords(10)), "orders", 10, cols)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
	if res.FileType() != filetype.CSV || res.Count() != 1 || res.CreateFileName() != "orders.csv" {
		t.Fatalf("result = %s %d %s", res.FileType(), res.Count(), res.CreateFileName())
	}
	if lines := strings.Count(string(readResult(t, res)), "\n"); lines != 11 {
		t.Errorf("got %d lines", lines)
	}
}

func TestCompileZeroRowsWritesHeader(t *testing.T) {
	c, _ := NewCompiler()
	res, err := c.Compile(context.Background(), scanner.FromRecords(nil), "empty", 0, cols)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
	if got := string(readResult(t, res)); got != "ID\n" {
		t.Errorf("content = %q", got)
	}
}

func TestCompileShortSourceEndsEarly(t *testing.T) {
	c, _ := NewCompiler(WithMaxRowsPerBook(10))
	// Claims 30 rows but has 13: book 2 stops after 3 rows, book 3 is empty.
	res, err := c.Compile(context.Background(), scanner.FromRecords(makeRecords(13)), "short", 30, cols)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	defer res.Close()
	zr := openZip(t, readResult(t, res))
	want := []int{10, 3, 0}
	if len(zr.File) != len(want) {
		t.Fatalf("entries = %d", len(zr.File))
	}
	for i, f := range zr.File {
		rc, _ := f.Open()
		body, _ := io.ReadAll(rc)
		rc.Close()
		if got := strings.Count(string(body), "\n") - 1; got != want[i] {
			t.Errorf("entry %s has %d rows, want %d", f.Name, got, want[i])
		}
	}
}

func TestCompileSpreadsheet(t *testing.T) {
	reg := builder.DefaultRegistry(builder.Settings{MaxRowsPerSheet: 4, MaxFetchBatch: 3})
	c, err := NewCompiler(WithFormat(filetype.XLSX), WithRegistry(reg))
	if err != nil {
		t.Fatal(err)
	}
	res, err := c.Compile(context.Background(), scanner.FromRecords(makeRecords(10)), "sheets", 10, cols)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	defer res.Close()
	if res.FileType() != filetype.XLSX {
		t.Fatalf("file type = %s", res.FileType())
	}
	f, err := excelize.OpenReader(bytes.NewReader(readResult(t, res)))
	if err != nil {
		t.Fatalf("invalid workbook: %v", err)
	}
	defer f.Close()
	next := 0
	for _, sheet := range f.GetSheetList() {
		rows, _ := f.GetRows(sheet)
		if rows[0][0] != "ID" {
			t.Errorf("sheet %s header = %v", sheet, rows[0])
		}
		if len(rows)-1 > 4 {
			t.Errorf("sheet %s has %d data rows", sheet, len(rows)-1)
		}
		for _, r := range rows[1:] {
			if r[0] != fmt.Sprint(next) {
				t.Fatalf("sheet %s: got %v, want %d", sheet, r, next)
			}
			next++
		}
	}
	if next != 10 || len(f.GetSheetList()) != 3 {
		t.Errorf("read %d rows from %d sheets", next, len(f.GetSheetList()))
	}
}

func TestCompileCancellationLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	files, err := result.NewFileFactory(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reg := builder.DefaultRegistry(builder.Settings{MaxFetchBatch: 5})
	src := scanner.FetchFunc(func(ctx context.Context, offset, count int) ([]scanner.Record, error) {
		// Cancel while the third book is being built.
		if offset >= 20 {
			cancel()
		}
		return makeRecords(count), nil
	})
	c, _ := NewCompiler(WithMaxRowsPerBook(10), WithRegistry(reg), WithResultFactory(files))
	res, err := c.Compile(ctx, src, "cancelled", 50, cols)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res != nil {
		t.Error("result returned on cancellation")
	}
	var e *exporterr.Error
	if errors.As(err, &e) {
		t.Errorf("cancellation reported as %v", e)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d files left behind", len(entries))
	}
}

func TestCompileFileBackedResult(t *testing.T) {
	dir := t.TempDir()
	files, _ := result.NewFileFactory(dir)
	c, _ := NewCompiler(WithMaxRowsPerBook(3), WithResultFactory(files))
	res, err := c.Compile(context.Background(), scanner.FromRecords(makeRecords(7)), "disk", 7, cols)
	if err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), "_disk.zip") {
		t.Fatalf("working dir = %v", entries)
	}
	if zr := openZip(t, readResult(t, res)); len(zr.File) != 3 {
		t.Errorf("entries = %d", len(zr.File))
	}
	res.Close()
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("Close left %d files", len(entries))
	}
}

// offsetRecorder serves records and records the requested offsets.
type offsetRecorder struct {
	mu      sync.Mutex
	src     scanner.Source
	offsets []int
}

func (o *offsetRecorder) Fetch(ctx context.Context, offset, count int) ([]scanner.Record, error) {
	o.mu.Lock()
	o.offsets = append(o.offsets, offset)
	o.mu.Unlock()
	return o.src.Fetch(ctx, offset, count)
}

func TestCompileParallel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, _ := metrics.NewCollector("test", reg)
	src := &offsetRecorder{src: scanner.FromRecords(makeRecords(95))}
	c, err := NewCompiler(WithMaxRowsPerBook(10), WithParallelBooks(4), WithMetrics(m))
	if err != nil {
		t.Fatal(err)
	}
	res, err := c.Compile(context.Background(), src, "par", 95, cols)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	defer res.Close()
	zr := openZip(t, readResult(t, res))
	if len(zr.File) != 10 {
		t.Fatalf("entries = %d", len(zr.File))
	}
	// Entries stay in book order regardless of completion order.
	for i, f := range zr.File {
		rc, _ := f.Open()
		body, _ := io.ReadAll(rc)
		rc.Close()
		first := strings.Split(string(body), "\n")[1]
		if first != fmt.Sprint(i*10) {
			t.Errorf("entry %s starts with %s", f.Name, first)
		}
	}
	if len(src.offsets) != 10 {
		t.Errorf("fetches = %v", src.offsets)
	}
	if got := counterSum(t, reg, "test_books_total"); got != 10 {
		t.Errorf("books_total = %v", got)
	}
}

// counterSum adds up every series of the named counter family.
func counterSum(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			v := 0.0
			for _, m := range mf.GetMetric() {
				v += m.GetCounter().GetValue()
			}
			return v
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestCompileValidation(t *testing.T) {
	c, _ := NewCompiler()
	ctx := context.Background()
	src := scanner.FromRecords(nil)
	if _, err := c.Compile(ctx, src, "", 1, cols); !errors.Is(err, exporterr.ErrMissingArgument) {
		t.Errorf("empty name: %v", err)
	}
	if _, err := c.Compile(ctx, nil, "x", 1, cols); !errors.Is(err, exporterr.ErrMissingArgument) {
		t.Errorf("nil source: %v", err)
	}
	if _, err := c.Compile(ctx, src, "x", -1, cols); !errors.Is(err, exporterr.ErrInvalidArgument) {
		t.Errorf("negative rows: %v", err)
	}
	if _, err := c.Compile(ctx, src, "x", 1, nil); !errors.Is(err, exporterr.ErrMissingArgument) {
		t.Errorf("nil columns: %v", err)
	}
	wide := make([]column.Descriptor, column.MaxCount+1)
	for i := range wide {
		wide[i] = column.Descriptor{Field: fmt.Sprint(i)}
	}
	if _, err := c.Compile(ctx, src, "x", 1, wide); !errors.Is(err, exporterr.ErrColumnLimitExceeded) {
		t.Errorf("too many columns: %v", err)
	}

	if _, err := NewCompiler(WithMaxRowsPerBook(0)); !errors.Is(err, exporterr.ErrInvalidArgument) {
		t.Errorf("zero book size: %v", err)
	}
	if _, err := NewCompiler(WithFormat(filetype.Zip)); !errors.Is(err, exporterr.ErrInvalidArgument) {
		t.Errorf("zip format: %v", err)
	}
	if _, err := NewCompiler(WithFormat("pdf")); !errors.Is(err, exporterr.ErrUnknownFormat) {
		t.Errorf("unknown format: %v", err)
	}
}
