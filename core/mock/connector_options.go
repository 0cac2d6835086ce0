package mock

import "github.com/snowfetch/snowfetch/core"

type connectorConfig struct {
	rows             []core.Row
	header           core.Header
	openErr          error
	closeErr         error
	pullCap          int
	querySideEffects map[string]func() error
}

type ConnectorOption func(*connectorConfig)

// ConnectorWithHeader overrides the default generated header.
func ConnectorWithHeader(header core.Header) ConnectorOption {
	return func(c *connectorConfig) {
		c.header = header
	}
}

// ConnectorWithOpenError makes every Open fail with err.
func ConnectorWithOpenError(err error) ConnectorOption {
	return func(c *connectorConfig) {
		c.openErr = err
	}
}

// ConnectorWithCloseError makes connection Close return err.
func ConnectorWithCloseError(err error) ConnectorOption {
	return func(c *connectorConfig) {
		c.closeErr = err
	}
}

// ConnectorWithPullCap caps every cursor pull at n rows, mimicking a
// driver that serves fewer rows than requested while more remain.
func ConnectorWithPullCap(n int) ConnectorOption {
	return func(c *connectorConfig) {
		c.pullCap = n
	}
}

// ConnectorWithQuerySideEffect runs eff before serving the given query;
// a non-nil result fails the query.
func ConnectorWithQuerySideEffect(query string, eff func() error) ConnectorOption {
	return func(c *connectorConfig) {
		c.querySideEffects[query] = eff
	}
}
