package scanner

import (
	"context"
	"fmt"
	"sync"
)

// Offset returns a Source whose offsets are shifted by base. Book builders
// count from zero; the compiler uses Offset to place each book in the
// overall row space.
func Offset(src Source, base int) Source {
	if base == 0 {
		return src
	}
	return FetchFunc(func(ctx context.Context, offset, count int) ([]Record, error) {
		return src.Fetch(ctx, base+offset, count)
	})
}

// FromRecords serves an in-memory slice of records.
func FromRecords(records []Record) Source {
	return FetchFunc(func(ctx context.Context, offset, count int) ([]Record, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if offset >= len(records) || count <= 0 {
			return []Record{}, nil
		}
		end := min(offset+count, len(records))
		return records[offset:end], nil
	})
}

// rowsSource serves a forward-only cursor as a Source.
type rowsSource struct {
	mu    sync.Mutex
	rows  Rows
	names []string
	pos   int
	done  bool
}

// FromRows adapts a forward-only cursor to Source. Offsets must be requested
// in non-decreasing order; a gap is skipped by reading and discarding rows, a
// step backwards is an error.
func FromRows(rows Rows) Source {
	return &rowsSource{rows: rows}
}

func (s *rowsSource) Fetch(ctx context.Context, offset, count int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < s.pos {
		return nil, fmt.Errorf("scanner: offset %d already consumed by %s cursor at %d", offset, s.rows.Driver(), s.pos)
	}
	if s.names == nil {
		cols, err := s.rows.Columns()
		if err != nil {
			return nil, err
		}
		s.names = make([]string, len(cols))
		for i, c := range cols {
			s.names[i] = c.Name()
		}
	}
	for s.pos < offset && !s.done {
		if _, err := s.next(); err != nil {
			return nil, err
		}
	}

	out := make([]Record, 0, count)
	for len(out) < count && !s.done {
		values, err := s.next()
		if err != nil {
			return nil, err
		}
		if values == nil {
			break
		}
		rec := make(Record, len(s.names))
		for i, name := range s.names {
			if i < len(values) {
				rec[name] = values[i]
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// next reads one row, returning nil values once the cursor is exhausted.
func (s *rowsSource) next() ([]any, error) {
	if !s.rows.Next() {
		s.done = true
		return nil, s.rows.Err()
	}
	values, err := s.rows.ScanRow()
	if err != nil {
		return nil, err
	}
	s.pos++
	return values, nil
}
