package export

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pradumnakadam07/manta-scraper/internal/model"
)

const DefaultPreviewRows = 20

// Preview renders the first n records as a table. n <= 0 prints nothing.
func Preview(w io.Writer, records model.ResultSet, n int) {
	if n <= 0 || len(records) == 0 {
		return
	}
	if n > len(records) {
		n = len(records)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Name", "Address", "Phone", "Website", "Email"})
	for i, r := range records[:n] {
		t.AppendRow(table.Row{i + 1, r.Name, r.Address, r.Phone, r.Website, r.Email})
	}
	if n < len(records) {
		t.AppendFooter(table.Row{"", "", "", "", "", fmt.Sprintf("showing %d of %d", n, len(records))})
	}
	t.Render()
}
