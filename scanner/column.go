package scanner

import "reflect"

// Column describes one column of a Rows cursor. It matches the method set of
// *sql.ColumnType so database columns satisfy it directly.
type Column interface {
	Name() string
	Length() (length int64, ok bool)
	DecimalSize() (precision, scale int64, ok bool)
	ScanType() reflect.Type
	Nullable() (nullable, ok bool)
	DatabaseTypeName() string
}

// describedColumn carries the metadata a non-SQL cursor knows about a
// column: its name and either a reported type name or the Go type of a
// sample value.
type describedColumn struct {
	name     string
	typeName string
	goType   reflect.Type
	sampled  bool
}

// sampledColumn describes a column from one sample value; nil leaves the
// type unknown.
func sampledColumn(name string, v any) *describedColumn {
	c := &describedColumn{name: name, sampled: true}
	if v != nil {
		c.goType = reflect.TypeOf(v)
	}
	return c
}

func (c *describedColumn) Name() string { return c.name }

func (c *describedColumn) Length() (int64, bool) { return 0, false }

func (c *describedColumn) DecimalSize() (int64, int64, bool) { return 0, 0, false }

func (c *describedColumn) ScanType() reflect.Type { return c.goType }

// Nullable is known only for sampled columns, where a nil sample counts as
// nullable.
func (c *describedColumn) Nullable() (bool, bool) {
	return c.sampled && c.goType == nil, c.sampled
}

// DatabaseTypeName reports the type name given by the cursor. Sampled
// columns report the Go type, or "nil" for a nil sample.
func (c *describedColumn) DatabaseTypeName() string {
	switch {
	case !c.sampled:
		return c.typeName
	case c.goType == nil:
		return "nil"
	}
	return c.goType.String()
}
