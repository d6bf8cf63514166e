package ingest

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// readXLSX reads an Excel workbook into rows. IPEDS/Carnegie workbooks keep
// the data on a sheet named like "Public release"; prefer that, else the
// first sheet.
func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: xlsx %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	for _, s := range f.Sheets {
		if strings.Contains(strings.ToLower(s.Name), "public") {
			sheet = s
			break
		}
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = c.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
