package format

import (
	"encoding/json"
	"fmt"

	"github.com/snowfetch/snowfetch/core"
)

var _ Formatter = (*JSON)(nil)

// JSON renders results as an indented array of column-keyed objects.
type JSON struct{}

func NewJSON() *JSON {
	return &JSON{}
}

func (jf *JSON) Format(result *core.Table) ([]byte, error) {
	out, err := json.MarshalIndent(result.Maps(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json.MarshalIndent: %w", err)
	}

	return out, nil
}
