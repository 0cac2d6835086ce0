// Package sfdriver is the gosnowflake-backed implementation of the
// core driver boundary. The multi-factor handshake, SQL execution and
// the columnar fetch optimization all live in the vendor driver; this
// package only adapts its database/sql surface to core cursors.
package sfdriver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/snowflakedb/gosnowflake"

	"github.com/snowfetch/snowfetch/core"
)

// sqlStateAuthFailure is the SQLSTATE class for invalid authorization.
const sqlStateAuthFailure = "28000"

var _ core.Connector = (*Connector)(nil)

// Connector opens Snowflake connections via the gosnowflake driver.
type Connector struct{}

func (Connector) Open(ctx context.Context, cfg *core.Config) (core.Conn, error) {
	sc, err := driverConfig(cfg)
	if err != nil {
		return nil, &core.ConnectionError{Err: err}
	}

	dsn, err := gosnowflake.DSN(sc)
	if err != nil {
		return nil, &core.ConnectionError{Err: fmt.Errorf("failed to build dsn: %w", err)}
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, &core.ConnectionError{Err: fmt.Errorf("unable to connect to snowflake: %w", err)}
	}

	c := &conn{db: db}

	// the driver dials lazily, so probe now: authentication (and the
	// multi-factor step) must happen at connect time, not on the
	// first query
	if err := c.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

// driverConfig maps a core config onto the vendor one. Optional fields
// are forwarded only when set, so driver-side defaults apply.
func driverConfig(cfg *core.Config) (*gosnowflake.Config, error) {
	auth, err := authType(cfg.Authenticator)
	if err != nil {
		return nil, err
	}

	sc := &gosnowflake.Config{
		Account:       cfg.Account,
		User:          cfg.User,
		Password:      cfg.Password,
		Authenticator: auth,
		Application:   "snowfetch",
	}

	if cfg.Warehouse != "" {
		sc.Warehouse = cfg.Warehouse
	}
	if cfg.Database != "" {
		sc.Database = cfg.Database
	}
	if cfg.Schema != "" {
		sc.Schema = cfg.Schema
	}
	if cfg.Role != "" {
		sc.Role = cfg.Role
	}
	if len(cfg.Params) > 0 {
		sc.Params = make(map[string]*string, len(cfg.Params))
		for k, v := range cfg.Params {
			sc.Params[k] = v
		}
	}

	return sc, nil
}

func authType(name string) (gosnowflake.AuthType, error) {
	switch strings.ToLower(name) {
	case "", core.DefaultAuthenticator:
		return gosnowflake.AuthTypeSnowflake, nil
	case "username_password_mfa":
		return gosnowflake.AuthTypeUsernamePasswordMFA, nil
	case "externalbrowser":
		return gosnowflake.AuthTypeExternalBrowser, nil
	case "oauth":
		return gosnowflake.AuthTypeOAuth, nil
	case "snowflake_jwt":
		return gosnowflake.AuthTypeJwt, nil
	default:
		return 0, fmt.Errorf("unknown authenticator: %q", name)
	}
}

var _ core.Conn = (*conn)(nil)

type conn struct {
	db *sql.DB
}

// Ping issues a trivial round trip to verify the connection is usable.
func (c *conn) Ping(ctx context.Context) error {
	var one int
	if err := c.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return classifyConnectErr(err)
	}
	return nil
}

func (c *conn) Query(ctx context.Context, query string) (core.Cursor, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyQueryErr(query, err)
	}

	cur, err := newRowsCursor(rows)
	if err != nil {
		return nil, classifyQueryErr(query, err)
	}
	return cur, nil
}

func (c *conn) Exec(ctx context.Context, query string) (core.Cursor, error) {
	res, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return nil, classifyQueryErr(query, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, classifyQueryErr(query, err)
	}

	return newValueCursor(core.Header{"rows affected"}, core.Row{affected}), nil
}

func (c *conn) Close() error {
	return c.db.Close()
}

// classifyConnectErr sorts open/probe failures into the error taxonomy:
// rejected credentials become AuthenticationError, everything else a
// ConnectionError. The driver error stays wrapped, not replaced.
func classifyConnectErr(err error) error {
	var sferr *gosnowflake.SnowflakeError
	if errors.As(err, &sferr) && sferr.SQLState == sqlStateAuthFailure {
		return &core.AuthenticationError{Err: err}
	}
	return &core.ConnectionError{Err: err}
}

func classifyQueryErr(query string, err error) error {
	if errors.Is(err, driver.ErrBadConn) {
		return &core.ConnectionError{Err: err}
	}

	var sferr *gosnowflake.SnowflakeError
	if errors.As(err, &sferr) && sferr.SQLState == sqlStateAuthFailure {
		return &core.AuthenticationError{Err: err}
	}

	return &core.QueryError{Query: query, Err: err}
}
