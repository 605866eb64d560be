package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector("", reg)
	if err != nil {
		t.Fatalf("NewCollector failed: %v", err)
	}
	c.ObserveBook("xlsx", 10, 2, 3)
	c.ObserveBook("xlsx", 5, 1, 1)
	c.ObserveCompile("xlsx", "ok", 20*time.Millisecond)

	if got := testutil.ToFloat64(c.books.WithLabelValues("xlsx")); got != 2 {
		t.Errorf("books = %v", got)
	}
	if got := testutil.ToFloat64(c.rows.WithLabelValues("xlsx")); got != 15 {
		t.Errorf("rows = %v", got)
	}
	if got := testutil.ToFloat64(c.sheets.WithLabelValues("xlsx")); got != 4 {
		t.Errorf("sheets = %v", got)
	}
	if got := testutil.ToFloat64(c.compiles.WithLabelValues("xlsx", "ok")); got != 1 {
		t.Errorf("compiles = %v", got)
	}
	if n := testutil.CollectAndCount(c.duration); n != 1 {
		t.Errorf("duration series = %d", n)
	}

	if _, err := NewCollector("", reg); err == nil {
		t.Error("duplicate registration should fail")
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveBook("csv", 1, 1, 1)
	c.ObserveCompile("csv", "error", time.Second)
}
