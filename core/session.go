package core

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Session owns at most one live driver connection and caches it across
// queries, so the multi-factor step happens only on the first open.
//
// A Session is not safe for concurrent use. Callers needing parallel
// queries should create one Session per execution context.
type Session struct {
	id        string
	cfg       *Config
	connector Connector
	log       *slog.Logger

	conn Conn
}

type SessionOption func(*Session)

// WithLogger sets the logger used for connect/disconnect events.
func WithLogger(log *slog.Logger) SessionOption {
	return func(s *Session) {
		s.log = log
	}
}

// NewSession creates a session for the given connector. No connection
// is opened until Connect or the first query.
func NewSession(cfg *Config, connector Connector, opts ...SessionOption) *Session {
	s := &Session{
		id:        uuid.New().String(),
		cfg:       cfg.Clone(),
		connector: connector,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.id)

	return s
}

// ID returns the session identifier used in log records.
func (s *Session) ID() string {
	return s.id
}

// Connected reports whether a connection handle is currently cached.
// It does not probe liveness.
func (s *Session) Connected() bool {
	return s.conn != nil
}

// Connect ensures a live connection. A cached handle is probed with a
// trivial round trip and reused on success; a dead handle is discarded
// and a new one is opened with the last-known parameters.
func (s *Session) Connect(ctx context.Context) error {
	if s.conn != nil {
		if err := s.conn.Ping(ctx); err == nil {
			return nil
		}
		s.log.Warn("cached connection is dead, reconnecting")
		// reap the dead handle before opening a new one
		_ = s.conn.Close()
		s.conn = nil
	}

	if err := s.cfg.Validate(); err != nil {
		return &ConnectionError{Err: err}
	}

	s.log.Info("connecting", "account", s.cfg.Account, "user", s.cfg.User)

	conn, err := s.connector.Open(ctx, s.cfg)
	if err != nil {
		s.log.Error("failed to connect", "error", err)
		return err
	}
	s.conn = conn

	s.log.Info("connected")
	return nil
}

// Disconnect closes the cached connection if present. Close-time errors
// are logged and swallowed, so Disconnect never fails and is safe to
// call repeatedly. A subsequent Connect re-authenticates.
func (s *Session) Disconnect() {
	if s.conn == nil {
		return
	}

	if err := s.conn.Close(); err != nil {
		s.log.Warn("error during disconnect", "error", err)
	}
	s.conn = nil

	s.log.Info("disconnected")
}

// Query executes a statement on the cached connection, connecting first
// if needed, and returns the open cursor. The caller owns the cursor
// and must close it.
func (s *Session) Query(ctx context.Context, query string) (Cursor, error) {
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	return s.conn.Query(ctx, query)
}

// Exec executes a statement without retrieving a result set and returns
// a cursor holding the affected row count. The caller must close it.
func (s *Session) Exec(ctx context.Context, query string) (Cursor, error) {
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	return s.conn.Exec(ctx, query)
}
