// Package ingest loads the institution source table from CSV, XLSX, or a ZIP
// archive containing a CSV (the IPEDS HD distribution format), normalizes
// domains, and drops unusable rows.
package ingest

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/reviewmycoach/coach-scout/internal/model"
	"github.com/reviewmycoach/coach-scout/internal/normalize"
)

// headerAliases maps the column roles we need to the header spellings seen in
// IPEDS and Carnegie exports. Matching is case-insensitive, first alias wins.
var headerAliases = map[string][]string{
	"name":      {"institution name", "instnm", "name"},
	"state":     {"state", "stabbr", "usps", "state abbreviation"},
	"website":   {"website", "insturl", "webaddr", "url"},
	"unitid":    {"unitid", "ipeds unitid"},
	"athletics": {"athurl", "athletics url"},
}

// Load reads the institution table at path and returns normalized
// institutions. Rows without a usable domain are dropped; duplicate domains
// keep the first row. An empty result is an error: the run cannot start
// without institutions.
func Load(path string) ([]model.Institution, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, eris.Errorf("ingest: %s has no data rows", path)
	}

	cols := mapHeader(rows[0])
	if cols["name"] < 0 {
		// Fall back to the first column, as exports without a recognizable
		// name header still lead with the institution name.
		cols["name"] = 0
	}

	seen := make(map[string]bool)
	var out []model.Institution
	for _, row := range rows[1:] {
		inst := model.Institution{
			UnitID:          cell(row, cols["unitid"]),
			Name:            cell(row, cols["name"]),
			State:           strings.ToUpper(cell(row, cols["state"])),
			Domain:          normalize.Domain(cell(row, cols["website"])),
			AthleticsDomain: normalize.Domain(cell(row, cols["athletics"])),
		}
		if inst.Domain == "" {
			continue
		}
		if seen[inst.Domain] {
			continue
		}
		seen[inst.Domain] = true
		out = append(out, inst)
	}

	if len(out) == 0 {
		return nil, eris.Errorf("ingest: %s contains no rows with a usable domain", path)
	}

	zap.L().Info("institutions loaded",
		zap.String("path", path),
		zap.Int("total_rows", len(rows)-1),
		zap.Int("usable", len(out)),
	)
	return out, nil
}

// FilterStates keeps only institutions in the given states. An empty filter
// returns the input unchanged.
func FilterStates(institutions []model.Institution, states []string) []model.Institution {
	if len(states) == 0 {
		return institutions
	}
	want := make(map[string]bool, len(states))
	for _, s := range states {
		want[strings.ToUpper(strings.TrimSpace(s))] = true
	}
	var out []model.Institution
	for _, inst := range institutions {
		if want[inst.State] {
			out = append(out, inst)
		}
	}
	return out
}

func readTable(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return readZIPCSV(path)
	case ".xlsx", ".xls":
		return readXLSX(path)
	default:
		return readCSVFile(path)
	}
}

func mapHeader(header []string) map[string]int {
	lower := make([]string, len(header))
	for i, h := range header {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	cols := make(map[string]int, len(headerAliases))
	for role, aliases := range headerAliases {
		cols[role] = -1
		for _, alias := range aliases {
			for i, h := range lower {
				if h == alias {
					cols[role] = i
					break
				}
			}
			if cols[role] >= 0 {
				break
			}
		}
	}
	return cols
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
