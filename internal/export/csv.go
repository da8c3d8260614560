package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pradumnakadam07/manta-scraper/internal/model"
)

// bom makes spreadsheet apps open the file as UTF-8.
var bom = []byte{0xEF, 0xBB, 0xBF}

var Header = []string{"Name", "Address", "Phone", "Website", "Email"}

// WriteCSV writes a BOM, the header row and one row per record.
func WriteCSV(w io.Writer, records model.ResultSet) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Name, r.Address, r.Phone, r.Website, r.Email}); err != nil {
			return fmt.Errorf("write row %q: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
