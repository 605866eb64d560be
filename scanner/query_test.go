package scanner

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T, rows int) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE orders (id INTEGER PRIMARY KEY, customer TEXT, amount REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	for i := 1; i <= rows; i++ {
		if _, err := db.Exec(`INSERT INTO orders (id, customer, amount) VALUES (?, ?, ?)`, i, fmt.Sprintf("c%d", i), float64(i)*1.5); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return db
}

func TestQuerySource(t *testing.T) {
	db := openTestDB(t, 23)
	ctx := context.Background()
	src := FromQuery(db, "sqlite", "SELECT id, customer, amount FROM orders ORDER BY id;")

	n, err := src.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 23 {
		t.Errorf("expected 23 rows, got %d", n)
	}

	cols, err := src.Columns(ctx)
	if err != nil {
		t.Fatalf("Columns failed: %v", err)
	}
	if len(cols) != 3 || cols[0].Name() != "id" || cols[2].Name() != "amount" {
		t.Errorf("unexpected columns: %d", len(cols))
	}

	// Out-of-order pages are allowed for query sources.
	page, err := src.Fetch(ctx, 20, 10)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 records, got %d", len(page))
	}
	if page[0]["id"] != int64(21) || page[0]["customer"] != "c21" {
		t.Errorf("unexpected record: %v", page[0])
	}

	page, err = src.Fetch(ctx, 0, 2)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(page) != 2 || page[1]["amount"] != 3.0 {
		t.Errorf("unexpected page: %v", page)
	}

	page, err = src.Fetch(ctx, 100, 10)
	if err != nil {
		t.Fatalf("Fetch beyond end failed: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("expected empty page, got %d", len(page))
	}
}

func TestQuerySourceBadQuery(t *testing.T) {
	db := openTestDB(t, 1)
	src := FromQuery(db, "sqlite", "SELECT * FROM missing")
	if _, err := src.Fetch(context.Background(), 0, 1); err == nil {
		t.Error("expected error for missing table")
	}
}

func TestQuerySourceOrdered(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT * FROM orders ORDER BY id", true},
		{"select * from orders order\n  by lower(customer), id;", true},
		{"SELECT * FROM orders", false},
		{"SELECT * FROM (SELECT * FROM orders ORDER BY id) AS o", false},
		{"SELECT * FROM orders WHERE id IN (SELECT id FROM orders ORDER BY amount LIMIT 5)", false},
		{"SELECT reorder_by FROM orders", false},
	}
	for _, tt := range tests {
		if got := FromQuery(nil, "sqlite", tt.query).Ordered(); got != tt.want {
			t.Errorf("Ordered(%q) = %t, want %t", tt.query, got, tt.want)
		}
	}
}
