package mock

import (
	"context"
	"errors"
	"fmt"

	"github.com/snowfetch/snowfetch/core"
)

var _ core.Conn = (*Conn)(nil)

// Conn is a scripted core.Conn handed out by a Connector.
type Conn struct {
	config *connectorConfig

	dead   bool
	closed bool

	// recorded calls
	PingCount int
	Cursors   []*Cursor
}

// Kill marks the connection dead: subsequent pings fail, forcing the
// session to discard the handle and reconnect.
func (c *Conn) Kill() {
	c.dead = true
}

// Closed reports whether Close was called on this connection.
func (c *Conn) Closed() bool {
	return c.closed
}

func (c *Conn) Ping(_ context.Context) error {
	c.PingCount++
	if c.dead || c.closed {
		return errors.New("connection is dead")
	}
	return nil
}

func (c *Conn) Query(_ context.Context, query string) (core.Cursor, error) {
	if eff, ok := c.config.querySideEffects[query]; ok {
		if err := eff(); err != nil {
			return nil, fmt.Errorf("side effect error: %w", err)
		}
	}

	cur := NewCursor(c.config.rows, c.config.header)
	if c.config.pullCap > 0 {
		cur.PullCap(c.config.pullCap)
	}
	c.Cursors = append(c.Cursors, cur)
	return cur, nil
}

func (c *Conn) Exec(_ context.Context, query string) (core.Cursor, error) {
	if eff, ok := c.config.querySideEffects[query]; ok {
		if err := eff(); err != nil {
			return nil, fmt.Errorf("side effect error: %w", err)
		}
	}

	cur := NewCursor([]core.Row{{int64(len(c.config.rows))}}, core.Header{"rows affected"})
	c.Cursors = append(c.Cursors, cur)
	return cur, nil
}

func (c *Conn) Close() error {
	c.closed = true
	return c.config.closeErr
}

var _ core.Connector = (*Connector)(nil)

// Connector is a scripted core.Connector. It records every opened
// connection so tests can assert on reconnect behavior.
type Connector struct {
	config *connectorConfig

	// recorded calls
	OpenCount  int
	Conns      []*Conn
	LastConfig *core.Config
}

// NewConnector returns a connector whose connections serve the provided
// rows for every query.
func NewConnector(rows []core.Row, opts ...ConnectorOption) *Connector {
	config := &connectorConfig{
		rows:             rows,
		header:           makeDefaultHeader(rows),
		querySideEffects: make(map[string]func() error),
	}
	for _, opt := range opts {
		opt(config)
	}

	return &Connector{
		config: config,
	}
}

func (c *Connector) Open(_ context.Context, cfg *core.Config) (core.Conn, error) {
	c.OpenCount++
	c.LastConfig = cfg
	if c.config.openErr != nil {
		return nil, c.config.openErr
	}

	conn := &Conn{config: c.config}
	c.Conns = append(c.Conns, conn)
	return conn, nil
}

// LastConn returns the most recently opened connection.
func (c *Connector) LastConn() *Conn {
	if len(c.Conns) == 0 {
		return nil
	}
	return c.Conns[len(c.Conns)-1]
}
