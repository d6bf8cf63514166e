package ingest

import (
	"archive/zip"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// readZIPCSV reads the first CSV inside a ZIP archive. The IPEDS HD
// distribution ships as a zip holding a single CSV.
func readZIPCSV(path string) ([][]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open zip %s", path)
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open zip entry %s", f.Name)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: read zip entry %s", f.Name)
		}
		return parseCSV(data)
	}

	return nil, eris.Errorf("ingest: zip %s does not contain a CSV", path)
}
