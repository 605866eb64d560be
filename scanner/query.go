package scanner

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// QuerySource pages through a SQL query with LIMIT/OFFSET. Each Fetch runs
// its own statement, so offsets may be requested in any order.
type QuerySource struct {
	db     *sql.DB
	driver string
	query  string
	args   []any
}

// FromQuery creates a paged Source over query. The query must not end with
// its own LIMIT clause, and should end with an ORDER BY that gives every row
// a stable position: pages are separate statements, and without ordering the
// database may return rows in a different order for each of them, skipping
// some rows and repeating others. Ordered reports whether it does.
func FromQuery(db *sql.DB, driver, query string, args ...any) *QuerySource {
	return &QuerySource{
		db:     db,
		driver: driver,
		query:  strings.TrimRight(strings.TrimSpace(query), ";"),
		args:   args,
	}
}

var orderByClause = regexp.MustCompile(`(?i)\border\s+by\b`)

// Ordered reports whether the query ends with a top-level ORDER BY clause.
func (q *QuerySource) Ordered() bool {
	matches := orderByClause.FindAllStringIndex(q.query, -1)
	if len(matches) == 0 {
		return false
	}
	depth := 0
	for _, r := range q.query[matches[len(matches)-1][1]:] {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// Count returns the number of rows the query produces.
func (q *QuerySource) Count(ctx context.Context) (int, error) {
	var n int
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS q", q.query)
	if err := q.db.QueryRowContext(ctx, stmt, q.args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "scanner: count query rows")
	}
	return n, nil
}

// Columns returns the column metadata of the query without reading rows.
func (q *QuerySource) Columns(ctx context.Context) ([]Column, error) {
	rows, err := q.page(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return FromSQL(rows, q.driver).Columns()
}

// Fetch implements Source.
func (q *QuerySource) Fetch(ctx context.Context, offset, count int) ([]Record, error) {
	if count <= 0 {
		return []Record{}, nil
	}
	rows, err := q.page(ctx, offset, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return FromRows(FromSQL(rows, q.driver)).Fetch(ctx, 0, count)
}

func (q *QuerySource) page(ctx context.Context, offset, count int) (*sql.Rows, error) {
	stmt := fmt.Sprintf("SELECT * FROM (%s) AS q LIMIT %d OFFSET %d", q.query, count, offset)
	rows, err := q.db.QueryContext(ctx, stmt, q.args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Wrapf(err, "scanner: query page offset=%d count=%d", offset, count)
	}
	return rows, nil
}
