package sfdriver

import (
	"database/sql"

	"github.com/snowfetch/snowfetch/core"
)

var _ core.Cursor = (*rowsCursor)(nil)

// rowsCursor adapts *sql.Rows to the core cursor shape. The column
// names are captured once at construction and stay fixed for the whole
// result.
type rowsCursor struct {
	rows   *sql.Rows
	header core.Header
}

func newRowsCursor(rows *sql.Rows) (*rowsCursor, error) {
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, err
	}

	return &rowsCursor{
		rows:   rows,
		header: core.Header(columns),
	}, nil
}

func (c *rowsCursor) Description() core.Header {
	return c.header
}

func (c *rowsCursor) scan() (core.Row, error) {
	columns := make([]any, len(c.header))
	columnPointers := make([]any, len(c.header))
	for i := range columns {
		columnPointers[i] = &columns[i]
	}

	if err := c.rows.Scan(columnPointers...); err != nil {
		return nil, err
	}

	row := make(core.Row, len(columns))
	for i, val := range columns {
		if valb, ok := val.([]byte); ok {
			row[i] = string(valb)
			continue
		}
		row[i] = val
	}

	return row, nil
}

func (c *rowsCursor) FetchMany(n int) ([]core.Row, error) {
	rows := make([]core.Row, 0, n)
	for len(rows) < n && c.rows.Next() {
		row, err := c.scan()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if err := c.rows.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *rowsCursor) FetchOne() (core.Row, error) {
	if !c.rows.Next() {
		return nil, c.rows.Err()
	}
	return c.scan()
}

func (c *rowsCursor) FetchAll() ([]core.Row, error) {
	var rows []core.Row
	for c.rows.Next() {
		row, err := c.scan()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if err := c.rows.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *rowsCursor) FetchTable() (*core.Table, error) {
	rows, err := c.FetchAll()
	if err != nil {
		return nil, err
	}
	return &core.Table{Header: c.header, Rows: rows}, nil
}

func (c *rowsCursor) Close() error {
	return c.rows.Close()
}

var _ core.Cursor = (*valueCursor)(nil)

// valueCursor serves a fixed set of rows, used for statements that
// report an affected row count instead of a result set.
type valueCursor struct {
	header core.Header
	rows   []core.Row
	pos    int
}

func newValueCursor(header core.Header, rows ...core.Row) *valueCursor {
	return &valueCursor{
		header: header,
		rows:   rows,
	}
}

func (c *valueCursor) Description() core.Header {
	return c.header
}

func (c *valueCursor) FetchMany(n int) ([]core.Row, error) {
	end := c.pos + n
	if end > len(c.rows) {
		end = len(c.rows)
	}
	rows := c.rows[c.pos:end]
	c.pos = end
	return rows, nil
}

func (c *valueCursor) FetchOne() (core.Row, error) {
	if c.pos >= len(c.rows) {
		return nil, nil
	}
	row := c.rows[c.pos]
	c.pos++
	return row, nil
}

func (c *valueCursor) FetchAll() ([]core.Row, error) {
	rows := c.rows[c.pos:]
	c.pos = len(c.rows)
	return rows, nil
}

func (c *valueCursor) FetchTable() (*core.Table, error) {
	rows, err := c.FetchAll()
	if err != nil {
		return nil, err
	}
	return &core.Table{Header: c.header, Rows: rows}, nil
}

func (c *valueCursor) Close() error {
	return nil
}
