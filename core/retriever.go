package core

import (
	"context"
	"errors"
	"log/slog"
)

// DefaultBatchSize is the number of rows per batch used by the batched
// retrieval methods when no size is given.
const DefaultBatchSize = 100000

var errNoMoreBatches = errors.New("no next batch")

// Retriever pulls query results from a session in bounded-memory
// chunks, either fully materialized or as a lazy batch stream.
//
// Like Session, a Retriever is not safe for concurrent use.
type Retriever struct {
	session *Session
	log     *slog.Logger
}

// NewRetriever creates a retriever on top of a session.
func NewRetriever(session *Session) *Retriever {
	return &Retriever{
		session: session,
		log:     session.log,
	}
}

type fetchConfig struct {
	chunkSize int
}

type FetchOption func(*fetchConfig)

// WithChunkSize makes materialized fetches pull rows in chunks of n to
// bound peak memory while the result is being built. Zero or negative
// n means a single bulk fetch.
func WithChunkSize(n int) FetchOption {
	return func(cfg *fetchConfig) {
		cfg.chunkSize = n
	}
}

func newFetchConfig(opts []FetchOption) *fetchConfig {
	cfg := &fetchConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (r *Retriever) closeCursor(cur Cursor) {
	if err := cur.Close(); err != nil {
		r.log.Warn("error closing cursor", "error", err)
	}
}

// FetchTable executes a query and materializes the whole result. With
// WithChunkSize the rows are pulled in bounded chunks and concatenated
// in arrival order; otherwise the driver's bulk fetch is used.
func (r *Retriever) FetchTable(ctx context.Context, query string, opts ...FetchOption) (*Table, error) {
	cfg := newFetchConfig(opts)

	cur, err := r.session.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer r.closeCursor(cur)

	if cfg.chunkSize <= 0 {
		table, err := cur.FetchTable()
		if err != nil {
			return nil, err
		}
		r.log.Info("retrieved rows", "rows", table.Len())
		return table, nil
	}

	r.log.Debug("fetching in chunks", "chunk_size", cfg.chunkSize)

	table := &Table{Header: cur.Description()}
	chunks := 0
	// only an empty pull proves exhaustion; a short chunk may just be
	// a driver serving fewer rows than requested
	for {
		rows, err := cur.FetchMany(cfg.chunkSize)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			break
		}
		table.Rows = append(table.Rows, rows...)
		chunks++
	}

	r.log.Info("retrieved rows", "rows", table.Len(), "chunks", chunks)
	return table, nil
}

// FetchMaps executes a query and materializes the result as one RowMap
// per row. Chunking behaves the same as in FetchTable.
func (r *Retriever) FetchMaps(ctx context.Context, query string, opts ...FetchOption) ([]RowMap, error) {
	table, err := r.FetchTable(ctx, query, opts...)
	if err != nil {
		return nil, err
	}
	return table.Maps(), nil
}

// FetchOne executes a query and returns its first row, or (nil, nil)
// when the result is empty.
func (r *Retriever) FetchOne(ctx context.Context, query string) (Row, error) {
	cur, err := r.session.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer r.closeCursor(cur)

	return cur.FetchOne()
}

// FetchAll executes a query and returns all rows. An empty result
// yields an empty slice, not an error.
func (r *Retriever) FetchAll(ctx context.Context, query string) ([]Row, error) {
	cur, err := r.session.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer r.closeCursor(cur)

	return cur.FetchAll()
}

// Exec executes a statement and returns the open cursor, which the
// caller owns and must close.
func (r *Retriever) Exec(ctx context.Context, query string) (Cursor, error) {
	return r.session.Exec(ctx, query)
}

// FetchTableBatches executes a query and returns a lazy stream of
// tables of at most batchSize rows each. Zero or negative batchSize
// means DefaultBatchSize. Re-invoking re-executes the query.
func (r *Retriever) FetchTableBatches(ctx context.Context, query string, batchSize int) (*Batches[*Table], error) {
	header, stream, err := r.rowBatches(ctx, query, batchSize)
	if err != nil {
		return nil, err
	}

	next := func() (*Table, error) {
		rows, err := stream.Next()
		if err != nil {
			return nil, err
		}
		return &Table{Header: header, Rows: rows}, nil
	}

	return newBatches(next, stream.HasNext, stream.Close), nil
}

// FetchMapBatches executes a query and returns a lazy stream of RowMap
// slices of at most batchSize rows each.
func (r *Retriever) FetchMapBatches(ctx context.Context, query string, batchSize int) (*Batches[[]RowMap], error) {
	header, stream, err := r.rowBatches(ctx, query, batchSize)
	if err != nil {
		return nil, err
	}

	next := func() ([]RowMap, error) {
		rows, err := stream.Next()
		if err != nil {
			return nil, err
		}
		maps := make([]RowMap, len(rows))
		for i, row := range rows {
			maps[i] = zipRow(header, row)
		}
		return maps, nil
	}

	return newBatches(next, stream.HasNext, stream.Close), nil
}

// rowBatches opens a cursor for the query and builds the underlying
// row-slice stream shared by the batched retrieval methods. The header
// is captured once, before the first pull, and reused for every batch.
func (r *Retriever) rowBatches(ctx context.Context, query string, batchSize int) (Header, *Batches[[]Row], error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	cur, err := r.session.Query(ctx, query)
	if err != nil {
		return nil, nil, err
	}

	header := cur.Description()

	var (
		pending []Row
		pullErr error
		done    bool
		count   int
	)

	// a short batch may just be a driver serving fewer rows than
	// requested; only an empty pull ends the stream
	hasNext := func() bool {
		if done {
			return false
		}
		if pending != nil || pullErr != nil {
			return true
		}
		rows, err := cur.FetchMany(batchSize)
		if err != nil {
			pullErr = err
			return true
		}
		if len(rows) == 0 {
			done = true
			r.log.Debug("batch stream exhausted", "batches", count)
			return false
		}
		pending = rows
		return true
	}

	next := func() ([]Row, error) {
		if pullErr != nil {
			err := pullErr
			pullErr = nil
			done = true
			return nil, err
		}
		if pending == nil && !hasNext() {
			return nil, errNoMoreBatches
		}
		rows := pending
		pending = nil
		count++
		r.log.Debug("yielding batch", "batch", count, "rows", len(rows))
		return rows, nil
	}

	stream := newBatches(next, hasNext, func() {
		r.closeCursor(cur)
	})

	return header, stream, nil
}
