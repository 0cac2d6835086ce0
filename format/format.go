// Package format renders materialized result tables for display.
package format

import "github.com/snowfetch/snowfetch/core"

// Formatter converts a table to bytes.
type Formatter interface {
	Format(table *core.Table) ([]byte, error)
}
