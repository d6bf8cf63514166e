package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// readCSVFile reads an entire CSV into rows. Field counts may vary between
// rows; the header mapper tolerates that.
func readCSVFile(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}
	return parseCSV(data)
}

func parseCSV(data []byte) ([][]string, error) {
	// IPEDS exports predate UTF-8; fall back to Latin-1 when the bytes are
	// not valid UTF-8 so names like "Señora" survive.
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: decode latin-1")
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		rows = append(rows, record)
	}
	return rows, nil
}
