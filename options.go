package snowfetch

import (
	"log/slog"

	"github.com/snowfetch/snowfetch/core"
	"github.com/snowfetch/snowfetch/prompt"
	"github.com/snowfetch/snowfetch/sfdriver"
)

type connectConfig struct {
	cfg       core.Config
	connector core.Connector
	prompter  prompt.Prompter
	logger    *slog.Logger
}

type ConnectOption func(*connectConfig)

func newConnectConfig(opts []ConnectOption) *connectConfig {
	config := &connectConfig{
		connector: sfdriver.Connector{},
		prompter:  prompt.NewTerminal(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithAccount sets the account identifier, overriding the configured
// default.
func WithAccount(account string) ConnectOption {
	return func(c *connectConfig) {
		c.cfg.Account = account
	}
}

// WithUser sets the username. When absent it is prompted for.
func WithUser(user string) ConnectOption {
	return func(c *connectConfig) {
		c.cfg.User = user
	}
}

// WithPassword sets the password. When absent it is prompted for
// without echo.
func WithPassword(password string) ConnectOption {
	return func(c *connectConfig) {
		c.cfg.Password = password
	}
}

// WithWarehouse sets the warehouse to use. Absent means the driver
// default.
func WithWarehouse(warehouse string) ConnectOption {
	return func(c *connectConfig) {
		c.cfg.Warehouse = warehouse
	}
}

// WithDatabase sets the default database. Absent means fully qualified
// names are expected in queries.
func WithDatabase(database string) ConnectOption {
	return func(c *connectConfig) {
		c.cfg.Database = database
	}
}

// WithSchema sets the default schema.
func WithSchema(schema string) ConnectOption {
	return func(c *connectConfig) {
		c.cfg.Schema = schema
	}
}

// WithRole sets the role to assume. Absent means the driver default.
func WithRole(role string) ConnectOption {
	return func(c *connectConfig) {
		c.cfg.Role = role
	}
}

// WithAuthenticator selects the driver authentication flow, e.g.
// "snowflake" (the default), "username_password_mfa" or
// "externalbrowser".
func WithAuthenticator(authenticator string) ConnectOption {
	return func(c *connectConfig) {
		c.cfg.Authenticator = authenticator
	}
}

// WithParam forwards an extra driver session parameter verbatim.
func WithParam(key, value string) ConnectOption {
	return func(c *connectConfig) {
		if c.cfg.Params == nil {
			c.cfg.Params = make(map[string]*string)
		}
		c.cfg.Params[key] = &value
	}
}

// WithConnector swaps the driver connector, mainly for tests.
func WithConnector(connector core.Connector) ConnectOption {
	return func(c *connectConfig) {
		c.connector = connector
	}
}

// WithPrompter swaps the credential prompter.
func WithPrompter(prompter prompt.Prompter) ConnectOption {
	return func(c *connectConfig) {
		c.prompter = prompter
	}
}

// WithLogger sets the logger for session events.
func WithLogger(logger *slog.Logger) ConnectOption {
	return func(c *connectConfig) {
		c.logger = logger
	}
}
