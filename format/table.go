package format

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/snowfetch/snowfetch/core"
)

var _ Formatter = (*Table)(nil)

// Table renders results as an aligned text table with a row index
// column.
type Table struct{}

func NewTable() *Table {
	return &Table{}
}

func (tf *Table) Format(result *core.Table) ([]byte, error) {
	tableHeaders := []any{""}
	for _, k := range result.Header {
		tableHeaders = append(tableHeaders, k)
	}

	var tableRows []table.Row
	for i, row := range result.Rows {
		indexedRow := append([]any{i + 1}, row...)
		tableRows = append(tableRows, table.Row(indexedRow))
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row(tableHeaders))
	t.AppendRows(tableRows)
	t.AppendSeparator()
	t.SetStyle(table.StyleLight)
	t.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	t.Style().Options.DrawBorder = false
	t.SuppressTrailingSpaces()

	return []byte(t.Render()), nil
}
