package datasets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Column addresses a table column either by position or by header name.
type Column struct {
	pos    int
	name   string
	byName bool
}

// Col addresses the column at position pos.
func Col(pos int) Column { return Column{pos: pos} }

// ColName addresses the column whose header is name.
func ColName(name string) Column { return Column{name: name, byName: true} }

func (c Column) String() string {
	if c.byName {
		return strconv.Quote(c.name)
	}
	return strconv.Itoa(c.pos)
}

// Table is a row-sliceable, column-addressable view of a delimited file.
// It is the side table (xtra) an ItemList keeps aligned with its items.
type Table struct {
	header []string
	rows   [][]string
}

// NewTable builds a table. A nil header names the columns "0", "1", ...
// Every row must have the same width as the header (or the first row).
func NewTable(header []string, rows [][]string) (*Table, error) {
	width := len(header)
	if header == nil && len(rows) > 0 {
		width = len(rows[0])
	}
	for i, r := range rows {
		if len(r) != width {
			return nil, errors.Errorf("row %d has %d fields, expected %d", i, len(r), width)
		}
	}
	if header == nil {
		header = make([]string, width)
		for i := range header {
			header[i] = strconv.Itoa(i)
		}
	}
	return &Table{header: header, rows: rows}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.header) }

// Header returns the column names.
func (t *Table) Header() []string { return t.header }

// Row returns row i.
func (t *Table) Row(i int) []string { return t.rows[i] }

// ColumnIndex resolves c to a position.
func (t *Table) ColumnIndex(c Column) (int, error) {
	if !c.byName {
		if c.pos < 0 || c.pos >= len(t.header) {
			return 0, errors.Wrapf(ErrColumn, "position %d (table has %d columns)", c.pos, len(t.header))
		}
		return c.pos, nil
	}
	for i, h := range t.header {
		if strings.TrimSpace(h) == c.name {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrColumn, "name %q", c.name)
}

// Column returns the values of column c, one per row.
func (t *Table) Column(c Column) ([]string, error) {
	idx, err := t.ColumnIndex(c)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[idx]
	}
	return out, nil
}

// SelectRows returns a new table holding the rows at idxs, in that order.
// The header and row slices are shared, not copied.
func (t *Table) SelectRows(idxs []int) (*Table, error) {
	rows := make([][]string, len(idxs))
	for i, idx := range idxs {
		if idx < 0 || idx >= len(t.rows) {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "row %d of %d", idx, len(t.rows))
		}
		rows[i] = t.rows[idx]
	}
	return &Table{header: t.header, rows: rows}, nil
}

// Concat appends the rows of other, which must have the same header.
func (t *Table) Concat(other *Table) (*Table, error) {
	if len(other.header) != len(t.header) {
		return nil, errors.Errorf("cannot concat tables with %d and %d columns", len(t.header), len(other.header))
	}
	rows := make([][]string, 0, len(t.rows)+len(other.rows))
	rows = append(rows, t.rows...)
	rows = append(rows, other.rows...)
	return &Table{header: t.header, rows: rows}, nil
}

func (t *Table) String() string {
	return fmt.Sprintf("Table (%d rows x %d columns) %v", len(t.rows), len(t.header), t.header)
}
