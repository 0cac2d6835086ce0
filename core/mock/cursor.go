package mock

import (
	"fmt"

	"github.com/snowfetch/snowfetch/core"
)

var _ core.Cursor = (*Cursor)(nil)

// Cursor is a scripted core.Cursor over a fixed row slice. It records
// every pull so tests can assert on partitioning and cleanup.
type Cursor struct {
	rows   []core.Row
	header core.Header
	pos    int

	errAfter int
	err      error
	closeErr error
	pullCap  int

	// recorded calls
	FetchManyCalls []int
	BulkFetches    int
	CloseCount     int
}

func makeDefaultHeader(rows []core.Row) core.Header {
	var header core.Header
	if len(rows) > 0 {
		for i := range rows[0] {
			header = append(header, fmt.Sprintf("header_%d", i))
		}
	}
	return header
}

// NewCursor returns a scripted cursor with the provided rows. A nil
// header gets defaulted to <header_0>, <header_1>, etc. matching the
// width of the first row.
func NewCursor(rows []core.Row, header core.Header) *Cursor {
	if header == nil {
		header = makeDefaultHeader(rows)
	}
	return &Cursor{
		rows:     rows,
		header:   header,
		errAfter: -1,
	}
}

// FailAfter makes any fetch return err once n rows have been consumed.
func (c *Cursor) FailAfter(n int, err error) *Cursor {
	c.errAfter = n
	c.err = err
	return c
}

// PullCap makes every FetchMany serve at most n rows regardless of how
// many were requested. Real drivers are allowed to do this while rows
// remain, so only an empty result signals exhaustion.
func (c *Cursor) PullCap(n int) *Cursor {
	c.pullCap = n
	return c
}

// FailClose makes Close return err. The close is still recorded.
func (c *Cursor) FailClose(err error) *Cursor {
	c.closeErr = err
	return c
}

func (c *Cursor) Description() core.Header {
	return c.header
}

func (c *Cursor) FetchMany(n int) ([]core.Row, error) {
	c.FetchManyCalls = append(c.FetchManyCalls, n)

	if c.errAfter >= 0 && c.pos >= c.errAfter {
		return nil, c.err
	}

	if c.pullCap > 0 && n > c.pullCap {
		n = c.pullCap
	}
	end := c.pos + n
	if end > len(c.rows) {
		end = len(c.rows)
	}
	rows := c.rows[c.pos:end]
	c.pos = end
	return rows, nil
}

func (c *Cursor) FetchOne() (core.Row, error) {
	if c.errAfter >= 0 && c.pos >= c.errAfter {
		return nil, c.err
	}
	if c.pos >= len(c.rows) {
		return nil, nil
	}
	row := c.rows[c.pos]
	c.pos++
	return row, nil
}

func (c *Cursor) FetchAll() ([]core.Row, error) {
	if c.errAfter >= 0 {
		return nil, c.err
	}
	rows := c.rows[c.pos:]
	c.pos = len(c.rows)
	return rows, nil
}

func (c *Cursor) FetchTable() (*core.Table, error) {
	c.BulkFetches++
	rows, err := c.FetchAll()
	if err != nil {
		return nil, err
	}
	return &core.Table{Header: c.header, Rows: rows}, nil
}

func (c *Cursor) Close() error {
	c.CloseCount++
	return c.closeErr
}

// NewRows returns a slice of rows in form of:
//
//	{ <index>(int), "row_<index>"(string) }
//
// where the first index is "from" and the last one is one less than "to".
func NewRows(from, to int) []core.Row {
	var rows []core.Row

	for i := from; i < to; i++ {
		rows = append(rows, core.Row{i, fmt.Sprintf("row_%d", i)})
	}
	return rows
}
