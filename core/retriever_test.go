package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snowfetch/snowfetch/core"
	"github.com/snowfetch/snowfetch/core/mock"
)

func newTestRetriever(t *testing.T, connector *mock.Connector) *core.Retriever {
	t.Helper()

	session := core.NewSession(testConfig(), connector)
	require.NoError(t, session.Connect(context.Background()))
	return core.NewRetriever(session)
}

func lastCursor(t *testing.T, connector *mock.Connector) *mock.Cursor {
	t.Helper()

	conn := connector.LastConn()
	require.NotNil(t, conn)
	require.NotEmpty(t, conn.Cursors)
	return conn.Cursors[len(conn.Cursors)-1]
}

func TestFetchTable_Bulk(t *testing.T) {
	r := require.New(t)

	rows := mock.NewRows(0, 10)
	connector := mock.NewConnector(rows)
	retriever := newTestRetriever(t, connector)

	table, err := retriever.FetchTable(context.Background(), "SELECT * FROM t")
	r.NoError(err)

	r.Equal(rows, table.Rows)
	r.Equal(core.Header{"header_0", "header_1"}, table.Header)

	cur := lastCursor(t, connector)
	r.Equal(1, cur.BulkFetches)
	r.Empty(cur.FetchManyCalls)
	r.Equal(1, cur.CloseCount)
}

func TestFetchTable_Chunked(t *testing.T) {
	r := require.New(t)

	rows := mock.NewRows(0, 10)
	connector := mock.NewConnector(rows)
	retriever := newTestRetriever(t, connector)

	table, err := retriever.FetchTable(context.Background(), "SELECT * FROM t",
		core.WithChunkSize(3),
	)
	r.NoError(err)

	// rows arrive in cursor order; the final empty pull proves exhaustion
	r.Equal(rows, table.Rows)
	cur := lastCursor(t, connector)
	r.Equal([]int{3, 3, 3, 3, 3}, cur.FetchManyCalls)
	r.Equal(0, cur.BulkFetches)
	r.Equal(1, cur.CloseCount)
}

func TestFetchTable_ShortPullsLoseNoRows(t *testing.T) {
	r := require.New(t)

	// a driver may serve fewer rows than requested while more remain;
	// fetching must continue until an empty pull
	rows := mock.NewRows(0, 10)
	connector := mock.NewConnector(rows, mock.ConnectorWithPullCap(2))
	retriever := newTestRetriever(t, connector)

	table, err := retriever.FetchTable(context.Background(), "SELECT * FROM t",
		core.WithChunkSize(5),
	)
	r.NoError(err)

	r.Equal(rows, table.Rows)
	r.Equal(1, lastCursor(t, connector).CloseCount)
}

func TestFetchTable_ChunkedExactMultiple(t *testing.T) {
	r := require.New(t)

	rows := mock.NewRows(0, 6)
	connector := mock.NewConnector(rows)
	retriever := newTestRetriever(t, connector)

	table, err := retriever.FetchTable(context.Background(), "SELECT * FROM t",
		core.WithChunkSize(3),
	)
	r.NoError(err)
	r.Equal(rows, table.Rows)

	// only an empty pull can prove exhaustion here
	cur := lastCursor(t, connector)
	r.Equal([]int{3, 3, 3}, cur.FetchManyCalls)
}

func TestFetchTable_QueryErrorClosesNothing(t *testing.T) {
	r := require.New(t)

	queryErr := errors.New("syntax error")
	connector := mock.NewConnector(nil,
		mock.ConnectorWithQuerySideEffect("bad query", func() error { return queryErr }),
	)
	retriever := newTestRetriever(t, connector)

	_, err := retriever.FetchTable(context.Background(), "bad query")
	r.ErrorIs(err, queryErr)
	r.Empty(connector.LastConn().Cursors)
}

func TestFetchMaps(t *testing.T) {
	r := require.New(t)

	connector := mock.NewConnector(
		[]core.Row{{1, "alice"}, {2, "bob"}},
		mock.ConnectorWithHeader(core.Header{"ID", "NAME"}),
	)
	retriever := newTestRetriever(t, connector)

	maps, err := retriever.FetchMaps(context.Background(), "SELECT * FROM users")
	r.NoError(err)

	r.Equal([]core.RowMap{
		{"ID": 1, "NAME": "alice"},
		{"ID": 2, "NAME": "bob"},
	}, maps)
}

func TestFetchOne_EmptyResult(t *testing.T) {
	r := require.New(t)

	connector := mock.NewConnector(nil)
	retriever := newTestRetriever(t, connector)

	row, err := retriever.FetchOne(context.Background(), "SELECT * FROM empty")
	r.NoError(err)
	r.Nil(row)

	r.Equal(1, lastCursor(t, connector).CloseCount)
}

func TestFetchAll_EmptyResult(t *testing.T) {
	r := require.New(t)

	connector := mock.NewConnector(nil)
	retriever := newTestRetriever(t, connector)

	rows, err := retriever.FetchAll(context.Background(), "SELECT * FROM empty")
	r.NoError(err)
	r.Empty(rows)
	r.Equal(1, lastCursor(t, connector).CloseCount)
}

func TestFetchTableBatches(t *testing.T) {
	r := require.New(t)

	rows := mock.NewRows(0, 25)
	connector := mock.NewConnector(rows)
	retriever := newTestRetriever(t, connector)

	batches, err := retriever.FetchTableBatches(context.Background(), "SELECT * FROM t", 10)
	r.NoError(err)
	defer batches.Close()

	var sizes []int
	var total []core.Row
	for batches.HasNext() {
		batch, err := batches.Next()
		r.NoError(err)
		r.Equal(core.Header{"header_0", "header_1"}, batch.Header)
		sizes = append(sizes, batch.Len())
		total = append(total, batch.Rows...)
	}

	r.Equal([]int{10, 10, 5}, sizes)
	r.Equal(rows, total)

	// the stream only ends once a pull comes back empty
	cur := lastCursor(t, connector)
	r.Equal([]int{10, 10, 10, 10}, cur.FetchManyCalls)
	r.Equal(1, cur.CloseCount)
}

func TestFetchTableBatches_ShortPullsLoseNoRows(t *testing.T) {
	r := require.New(t)

	rows := mock.NewRows(0, 10)
	connector := mock.NewConnector(rows, mock.ConnectorWithPullCap(2))
	retriever := newTestRetriever(t, connector)

	batches, err := retriever.FetchTableBatches(context.Background(), "SELECT * FROM t", 5)
	r.NoError(err)
	defer batches.Close()

	var total []core.Row
	for batches.HasNext() {
		batch, err := batches.Next()
		r.NoError(err)
		total = append(total, batch.Rows...)
	}

	// short batches keep the stream alive; every row still arrives
	r.Equal(rows, total)
	r.Equal(1, lastCursor(t, connector).CloseCount)
}

func TestFetchTableBatches_SpecSizes(t *testing.T) {
	r := require.New(t)

	rows := make([]core.Row, 250000)
	for i := range rows {
		rows[i] = core.Row{i}
	}
	connector := mock.NewConnector(rows)
	retriever := newTestRetriever(t, connector)

	batches, err := retriever.FetchTableBatches(context.Background(), "SELECT * FROM big", 100000)
	r.NoError(err)
	defer batches.Close()

	var sizes []int
	total := 0
	for batches.HasNext() {
		batch, err := batches.Next()
		r.NoError(err)
		sizes = append(sizes, batch.Len())
		total += batch.Len()
	}

	r.Equal([]int{100000, 100000, 50000}, sizes)
	r.Equal(250000, total)
	r.Equal(1, lastCursor(t, connector).CloseCount)
}

func TestFetchTableBatches_EarlyAbandon(t *testing.T) {
	r := require.New(t)

	connector := mock.NewConnector(mock.NewRows(0, 25))
	retriever := newTestRetriever(t, connector)

	batches, err := retriever.FetchTableBatches(context.Background(), "SELECT * FROM t", 10)
	r.NoError(err)

	r.True(batches.HasNext())
	batch, err := batches.Next()
	r.NoError(err)
	r.Equal(10, batch.Len())

	// abandon the iteration; the cursor must still be released, once
	batches.Close()
	batches.Close()

	cur := lastCursor(t, connector)
	r.Equal(1, cur.CloseCount)
	r.False(batches.HasNext())
}

func TestFetchTableBatches_FetchErrorClosesCursor(t *testing.T) {
	r := require.New(t)

	fetchErr := errors.New("result expired")
	connector := mock.NewConnector(mock.NewRows(0, 25))
	retriever := newTestRetriever(t, connector)

	batches, err := retriever.FetchTableBatches(context.Background(), "SELECT * FROM t", 10)
	r.NoError(err)
	defer batches.Close()

	lastCursor(t, connector).FailAfter(10, fetchErr)

	r.True(batches.HasNext())
	_, err = batches.Next()
	r.NoError(err)

	r.True(batches.HasNext())
	_, err = batches.Next()
	r.ErrorIs(err, fetchErr)

	r.Equal(1, lastCursor(t, connector).CloseCount)
	r.False(batches.HasNext())
}

func TestFetchMapBatches(t *testing.T) {
	r := require.New(t)

	connector := mock.NewConnector(
		[]core.Row{{1, "alice"}, {2, "bob"}, {3, "carol"}},
		mock.ConnectorWithHeader(core.Header{"ID", "NAME"}),
	)
	retriever := newTestRetriever(t, connector)

	batches, err := retriever.FetchMapBatches(context.Background(), "SELECT * FROM users", 2)
	r.NoError(err)
	defer batches.Close()

	var all []core.RowMap
	for batches.HasNext() {
		batch, err := batches.Next()
		r.NoError(err)
		all = append(all, batch...)
	}

	r.Equal([]core.RowMap{
		{"ID": 1, "NAME": "alice"},
		{"ID": 2, "NAME": "bob"},
		{"ID": 3, "NAME": "carol"},
	}, all)
	r.Equal(1, lastCursor(t, connector).CloseCount)
}

func TestFetchTableBatches_DefaultBatchSize(t *testing.T) {
	r := require.New(t)

	connector := mock.NewConnector(mock.NewRows(0, 10))
	retriever := newTestRetriever(t, connector)

	batches, err := retriever.FetchTableBatches(context.Background(), "SELECT * FROM t", 0)
	r.NoError(err)
	defer batches.Close()

	r.True(batches.HasNext())
	batch, err := batches.Next()
	r.NoError(err)
	r.Equal(10, batch.Len())

	r.Equal([]int{core.DefaultBatchSize}, lastCursor(t, connector).FetchManyCalls)
}
