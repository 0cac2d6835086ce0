package core

import "context"

type (
	// Row and Header are attributes of a Cursor result
	Row    []any
	Header []string

	// RowMap is a single row keyed by column name. Key order follows
	// the cursor description, value types match the Row values.
	RowMap map[string]any

	// Table is a fully materialized result: an ordered header and rows
	// in cursor-delivery order.
	Table struct {
		Header Header
		Rows   []Row
	}
)

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Maps converts the table to a slice of RowMap, one per row.
func (t *Table) Maps() []RowMap {
	maps := make([]RowMap, len(t.Rows))
	for i, row := range t.Rows {
		maps[i] = zipRow(t.Header, row)
	}
	return maps
}

func zipRow(header Header, row Row) RowMap {
	m := make(RowMap, len(header))
	for i, name := range header {
		if i < len(row) {
			m[name] = row[i]
		}
	}
	return m
}

type (
	// Connector opens driver connections. The production implementation
	// lives in the sfdriver package, mocks in core/mock.
	Connector interface {
		Open(ctx context.Context, cfg *Config) (Conn, error)
	}

	// Conn is a single driver connection.
	Conn interface {
		// Ping is a trivial round trip used as a liveness probe.
		Ping(ctx context.Context) error
		// Query executes a statement and returns an open cursor over
		// its result. The caller owns the cursor and must close it.
		Query(ctx context.Context, query string) (Cursor, error)
		// Exec executes a statement without a result set and returns a
		// cursor holding the affected row count.
		Exec(ctx context.Context, query string) (Cursor, error)
		Close() error
	}

	// Cursor is a handle bound to one executed statement, from which
	// rows are pulled incrementally.
	Cursor interface {
		// Description returns the ordered column names. Valid until
		// the cursor is closed and fixed for the whole result.
		Description() Header
		// FetchMany pulls up to n rows. An empty result means the
		// cursor is exhausted; a short result may or may not be the
		// last one, depending on the driver.
		FetchMany(n int) ([]Row, error)
		// FetchOne pulls the next row, or returns (nil, nil) when the
		// cursor is exhausted.
		FetchOne() (Row, error)
		// FetchAll drains the cursor into a row slice.
		FetchAll() ([]Row, error)
		// FetchTable drains the cursor into a table in a single bulk
		// call.
		FetchTable() (*Table, error)
		Close() error
	}
)
