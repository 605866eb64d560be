package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"

	"github.com/beltran/gohive"
	_ "modernc.org/sqlite"

	"github.com/go-data-exporter/bookexport/column"
	"github.com/go-data-exporter/bookexport/scanner"
)

// sourceOptions selects where rows come from. Exactly one of db and hive is
// set.
type sourceOptions struct {
	db       string
	hive     string
	hiveAuth string
	hiveUser string
	query    string
}

// querySource is an opened query ready for export.
type querySource struct {
	src   scanner.Source
	total int
	cols  []column.Descriptor
	// sequential is set when the source only serves increasing offsets.
	sequential bool
	// unordered is set when pages may not agree on row order.
	unordered bool
	close      func() error
}

func (o *sourceOptions) validate() error {
	if o.query == "" {
		return fmt.Errorf("--query is required")
	}
	if (o.db == "") == (o.hive == "") {
		return fmt.Errorf("exactly one of --db and --hive is required")
	}
	return nil
}

func (o *sourceOptions) open(ctx context.Context) (*querySource, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.db != "" {
		return openSQLite(ctx, o.db, o.query)
	}
	return openHive(ctx, o.hive, o.hiveAuth, o.hiveUser, o.query)
}

func openSQLite(ctx context.Context, path, query string) (*querySource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	q := scanner.FromQuery(db, "sqlite", query)
	total, err := q.Count(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	meta, err := q.Columns(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &querySource{
		src:   q,
		total: total,
		cols:      column.FromScanner(meta),
		unordered: !q.Ordered(),
		close:     db.Close,
	}, nil
}

func openHive(ctx context.Context, addr, auth, user, query string) (*querySource, error) {
	host, portText, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid --hive address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		return nil, fmt.Errorf("invalid --hive port %q: %w", portText, err)
	}
	conf := gohive.NewConnectConfiguration()
	if user != "" {
		conf.Username = user
	}
	conn, err := gohive.Connect(host, port, auth, conf)
	if err != nil {
		return nil, fmt.Errorf("connect to hive %s: %w", addr, err)
	}

	total, err := hiveCount(ctx, conn, query)
	if err != nil {
		conn.Close()
		return nil, err
	}

	cursor := conn.Cursor()
	cursor.Exec(ctx, query)
	if cursor.Err != nil {
		cursor.Close()
		conn.Close()
		return nil, fmt.Errorf("hive query: %w", cursor.Err)
	}
	rows := scanner.FromHiveCursor(ctx, cursor)
	meta, err := rows.Columns()
	if err != nil {
		cursor.Close()
		conn.Close()
		return nil, err
	}
	return &querySource{
		src:        scanner.FromRows(rows),
		total:      total,
		cols:       column.FromScanner(meta),
		sequential: true,
		close: func() error {
			cursor.Close()
			return conn.Close()
		},
	}, nil
}

func hiveCount(ctx context.Context, conn *gohive.Connection, query string) (int, error) {
	cursor := conn.Cursor()
	defer cursor.Close()
	cursor.Exec(ctx, fmt.Sprintf("SELECT COUNT(*) FROM (%s) q", query))
	if cursor.Err != nil {
		return 0, fmt.Errorf("hive count: %w", cursor.Err)
	}
	var n int64
	cursor.FetchOne(ctx, &n)
	if cursor.Err != nil {
		return 0, fmt.Errorf("hive count: %w", cursor.Err)
	}
	return int(n), nil
}
