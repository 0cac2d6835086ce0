// Package snowfetch is a convenience layer over the Snowflake driver:
// it caches a single authenticated session so the multi-factor step
// happens exactly once, and retrieves query results in bounded-memory
// batches.
//
//	err := snowfetch.Connect(ctx) // prompts for missing credentials
//	...
//	table, err := snowfetch.Query(ctx, "SELECT * FROM db.schema.events")
//
// The package-level API drives one process-wide session and is not safe
// for concurrent use. Callers needing several sessions, or concurrency,
// should use core.Session and core.Retriever directly.
package snowfetch

import (
	"context"
	"os"

	"github.com/snowfetch/snowfetch/core"
)

// DefaultAccountEnv names the environment variable consulted for the
// account identifier when none is supplied to Connect or
// SetDefaultAccount.
const DefaultAccountEnv = "SNOWFLAKE_ACCOUNT"

var (
	defaultAccount = os.Getenv(DefaultAccountEnv)

	active    *core.Session
	retriever *core.Retriever
)

// SetDefaultAccount sets the account identifier used by Connect when
// WithAccount is not given.
func SetDefaultAccount(account string) {
	defaultAccount = account
}

// Connect opens the process-wide session. Missing user and password are
// prompted for interactively; a missing account falls back to
// SetDefaultAccount or the SNOWFLAKE_ACCOUNT environment variable.
// The driver runs its multi-factor step here, once.
func Connect(ctx context.Context, opts ...ConnectOption) error {
	// a repeated connect replaces the session; drop the old handle first
	Disconnect()

	config := newConnectConfig(opts)

	if config.cfg.Account == "" {
		config.cfg.Account = defaultAccount
	}

	if config.cfg.User == "" {
		user, err := config.prompter.Text("Enter Snowflake username: ")
		if err != nil {
			return err
		}
		config.cfg.User = user
	}
	if config.cfg.Password == "" {
		password, err := config.prompter.Secret("Enter Snowflake password: ")
		if err != nil {
			return err
		}
		config.cfg.Password = password
	}

	session := core.NewSession(&config.cfg, config.connector, core.WithLogger(config.logger))
	if err := session.Connect(ctx); err != nil {
		return err
	}

	active = session
	retriever = core.NewRetriever(session)
	return nil
}

// Disconnect tears down the process-wide session. It never fails and
// calling it without a session is a no-op. A later Connect
// re-authenticates from scratch.
func Disconnect() {
	if active == nil {
		return
	}

	active.Disconnect()
	active = nil
	retriever = nil
}

func ensureConnected() (*core.Retriever, error) {
	if active == nil || !active.Connected() {
		return nil, core.ErrNotConnected
	}
	return retriever, nil
}

// Query executes a query and materializes the whole result as a table.
// Use core.WithChunkSize to bound peak memory while fetching.
func Query(ctx context.Context, query string, opts ...core.FetchOption) (*core.Table, error) {
	r, err := ensureConnected()
	if err != nil {
		return nil, err
	}
	return r.FetchTable(ctx, query, opts...)
}

// QueryBatches executes a query and returns a lazy stream of tables of
// at most batchSize rows each (core.DefaultBatchSize when batchSize is
// not positive). The caller must drain or Close the stream.
func QueryBatches(ctx context.Context, query string, batchSize int) (*core.Batches[*core.Table], error) {
	r, err := ensureConnected()
	if err != nil {
		return nil, err
	}
	return r.FetchTableBatches(ctx, query, batchSize)
}

// QueryMaps executes a query and returns one map per row, keyed by
// column name.
func QueryMaps(ctx context.Context, query string, opts ...core.FetchOption) ([]core.RowMap, error) {
	r, err := ensureConnected()
	if err != nil {
		return nil, err
	}
	return r.FetchMaps(ctx, query, opts...)
}

// QueryMapBatches executes a query and returns a lazy stream of RowMap
// slices of at most batchSize rows each.
func QueryMapBatches(ctx context.Context, query string, batchSize int) (*core.Batches[[]core.RowMap], error) {
	r, err := ensureConnected()
	if err != nil {
		return nil, err
	}
	return r.FetchMapBatches(ctx, query, batchSize)
}

// Exec executes a statement without retrieving a result set (DDL, DML)
// and returns the open cursor. The caller owns the cursor and must
// close it.
func Exec(ctx context.Context, query string) (core.Cursor, error) {
	r, err := ensureConnected()
	if err != nil {
		return nil, err
	}
	return r.Exec(ctx, query)
}

// FetchOne executes a query and returns its first row, or (nil, nil)
// when the result is empty.
func FetchOne(ctx context.Context, query string) (core.Row, error) {
	r, err := ensureConnected()
	if err != nil {
		return nil, err
	}
	return r.FetchOne(ctx, query)
}

// FetchAll executes a query and returns all rows.
func FetchAll(ctx context.Context, query string) ([]core.Row, error) {
	r, err := ensureConnected()
	if err != nil {
		return nil, err
	}
	return r.FetchAll(ctx, query)
}
