package csvbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/unicode"

	"github.com/go-data-exporter/bookexport/book"
	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/exporterr"
)

var cols = []column.Descriptor{
	{Field: "id", Header: "ID"},
	{Field: "name", Header: "Name"},
	{Field: "at", Header: "At"},
}

func TestWrite(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var buf bytes.Buffer
	b := New(&buf)
	if err := b.SetColumns(cols); err != nil {
		t.Fatalf("SetColumns failed: %v", err)
	}
	err := b.AddRows([]book.Row{
		{{Value: 1}, {Value: "a,b"}, {Value: now}},
		{{Value: 2}, {Value: nil}, {Value: now}},
	})
	if err != nil {
		t.Fatalf("AddRows failed: %v", err)
	}
	if err := b.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if strings.Join(records[0], "|") != "ID|Name|At" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][1] != "a,b" {
		t.Errorf("quoting lost: %q", records[1][1])
	}
	if records[2][1] != "" {
		t.Errorf("NULL should be empty, got %q", records[2][1])
	}
	if records[1][2] != now.Format(time.RFC3339Nano) {
		t.Errorf("time not formatted: %q", records[1][2])
	}
}

func TestHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf)
	if err := b.SetColumns(cols); err != nil {
		t.Fatal(err)
	}
	if err := b.AddRows([]book.Row{}); err != nil {
		t.Fatal(err)
	}
	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "ID,Name,At\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestOptions(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, WithCustomDelimiter(';'), WithCRLF(true), WithCustomNULL("NULL"))
	b.SetColumns(cols[:2])
	b.AddRows([]book.Row{{{Value: 1}, {Value: nil}}})
	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "ID;Name\r\n1;NULL\r\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestEncodingBOM(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf, WithEncoding(unicode.UTF8BOM))
	b.SetColumns(cols[:1])
	b.AddRows([]book.Row{{{Value: "é"}}})
	if err := b.Finalize(); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}) {
		t.Errorf("missing BOM: % x", buf.Bytes()[:3])
	}
	if !strings.HasSuffix(buf.String(), "ID\né\n") {
		t.Errorf("unexpected body: %q", buf.String())
	}
}

func TestUsageErrors(t *testing.T) {
	var buf bytes.Buffer
	b := New(&buf)
	if err := b.AddRows([]book.Row{}); !errors.Is(err, exporterr.ErrInvalidState) {
		t.Errorf("AddRows before header: %v", err)
	}
	if err := b.SetColumns(nil); !errors.Is(err, exporterr.ErrMissingArgument) {
		t.Errorf("nil columns: %v", err)
	}
	b.SetColumns(cols)
	if err := b.AddRows(nil); !errors.Is(err, exporterr.ErrMissingArgument) {
		t.Errorf("nil rows: %v", err)
	}
	if err := b.AddRows([]book.Row{{{Value: 1}}}); !errors.Is(err, exporterr.ErrInvalidArgument) {
		t.Errorf("short row: %v", err)
	}
	b.Finalize()
	if err := b.AddRows([]book.Row{}); !errors.Is(err, exporterr.ErrBookFinalized) {
		t.Errorf("AddRows after Finalize: %v", err)
	}
}
