package core

import "errors"

// DefaultAuthenticator is used when Config.Authenticator is left empty.
// It is the driver's password + multi-factor flow.
const DefaultAuthenticator = "snowflake"

// Config holds the connection parameters for a session. Optional fields
// left empty are not forwarded to the driver, so driver-side defaults
// apply.
type Config struct {
	Account  string
	User     string
	Password string

	// optional
	Warehouse string
	Database  string
	Schema    string
	Role      string

	// Authenticator selects the driver authentication flow.
	// Empty means DefaultAuthenticator.
	Authenticator string

	// Params are extra driver session parameters, forwarded verbatim.
	Params map[string]*string
}

var (
	errNoAccount = errors.New("config: account is required")
	errNoUser    = errors.New("config: user is required")
)

// Validate checks that the required fields are set.
func (c *Config) Validate() error {
	if c.Account == "" {
		return errNoAccount
	}
	if c.User == "" {
		return errNoUser
	}
	return nil
}

// Clone returns a copy of the config with its own params map.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Params != nil {
		clone.Params = make(map[string]*string, len(c.Params))
		for k, v := range c.Params {
			clone.Params[k] = v
		}
	}
	return &clone
}
