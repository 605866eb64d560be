package scanner

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func records(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{"id": i, "name": fmt.Sprintf("row-%d", i)}
	}
	return out
}

func TestFromRecords(t *testing.T) {
	src := FromRecords(records(25))
	ctx := context.Background()

	tests := []struct {
		name      string
		offset    int
		count     int
		wantLen   int
		wantFirst int
	}{
		{"first page", 0, 10, 10, 0},
		{"middle page", 10, 10, 10, 10},
		{"short last page", 20, 10, 5, 20},
		{"beyond end", 30, 10, 0, -1},
		{"zero count", 0, 0, 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.Fetch(ctx, tt.offset, tt.count)
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("expected %d records, got %d", tt.wantLen, len(got))
			}
			if tt.wantFirst >= 0 && got[0]["id"] != tt.wantFirst {
				t.Errorf("expected first id %d, got %v", tt.wantFirst, got[0]["id"])
			}
		})
	}
}

func TestFromRecordsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FromRecords(records(5)).Fetch(ctx, 0, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOffset(t *testing.T) {
	src := Offset(FromRecords(records(25)), 20)
	got, err := src.Fetch(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 records, got %d", len(got))
	}
	if got[0]["id"] != 20 {
		t.Errorf("expected id 20, got %v", got[0]["id"])
	}
}

func TestFetchFunc(t *testing.T) {
	var gotOffset, gotCount int
	src := FetchFunc(func(_ context.Context, offset, count int) ([]Record, error) {
		gotOffset, gotCount = offset, count
		return nil, nil
	})
	if _, err := Offset(src, 7).Fetch(context.Background(), 3, 4); err != nil {
		t.Fatal(err)
	}
	if gotOffset != 10 || gotCount != 4 {
		t.Errorf("expected (10, 4), got (%d, %d)", gotOffset, gotCount)
	}
}

func TestFromRows(t *testing.T) {
	data := make([][]any, 12)
	for i := range data {
		data[i] = []any{i, fmt.Sprintf("v%d", i)}
	}
	ctx := context.Background()

	t.Run("sequential pages", func(t *testing.T) {
		src := FromRows(FromData(data, "id", "value"))
		var all []Record
		for offset := 0; ; offset += 5 {
			batch, err := src.Fetch(ctx, offset, 5)
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			all = append(all, batch...)
			if len(batch) < 5 {
				break
			}
		}
		if len(all) != 12 {
			t.Fatalf("expected 12 records, got %d", len(all))
		}
		for i, rec := range all {
			if rec["id"] != i || rec["value"] != fmt.Sprintf("v%d", i) {
				t.Errorf("record %d out of order: %v", i, rec)
			}
		}
	})

	t.Run("skip forward", func(t *testing.T) {
		src := FromRows(FromData(data))
		batch, err := src.Fetch(ctx, 10, 5)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if len(batch) != 2 || batch[0]["column_0"] != 10 {
			t.Errorf("unexpected batch: %v", batch)
		}
	})

	t.Run("backwards offset", func(t *testing.T) {
		src := FromRows(FromData(data))
		if _, err := src.Fetch(ctx, 5, 5); err != nil {
			t.Fatal(err)
		}
		if _, err := src.Fetch(ctx, 0, 5); err == nil {
			t.Error("expected error for consumed offset")
		}
	})

	t.Run("empty data", func(t *testing.T) {
		batch, err := FromRows(FromData(nil)).Fetch(ctx, 0, 5)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if len(batch) != 0 {
			t.Errorf("expected no records, got %d", len(batch))
		}
	})
}

func TestFromDataRaggedRow(t *testing.T) {
	src := FromRows(FromData([][]any{{1, 2}, {3}}))
	if _, err := src.Fetch(context.Background(), 0, 5); err == nil {
		t.Error("expected error for ragged row")
	}
}

func TestFromDataColumns(t *testing.T) {
	cols, err := FromData([][]any{{1, "a", nil}}, "id").Columns()
	if err != nil {
		t.Fatal(err)
	}
	want := []struct{ name, typ string }{
		{"id", "int"},
		{"column_1", "string"},
		{"column_2", "nil"},
	}
	for i, w := range want {
		if cols[i].Name() != w.name || cols[i].DatabaseTypeName() != w.typ {
			t.Errorf("column %d = (%s, %s), want (%s, %s)", i, cols[i].Name(), cols[i].DatabaseTypeName(), w.name, w.typ)
		}
	}
	if nullable, ok := cols[2].Nullable(); !nullable || !ok {
		t.Errorf("nil sample: Nullable = %t, %t", nullable, ok)
	}
	if nullable, _ := cols[0].Nullable(); nullable {
		t.Error("int sample reported nullable")
	}
}
