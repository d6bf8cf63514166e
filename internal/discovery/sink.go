package discovery

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/reviewmycoach/coach-scout/internal/model"
)

// Sink receives discovery rows as they are produced.
type Sink interface {
	Add(row model.DiscoveryRow) error
	Close() error
}

var csvHeader = []string{
	"unitid", "institution", "state", "domain",
	"doc_title", "url", "status_code", "content_type",
	"query_used", "keyword_hits", "confidence", "heuristic_match",
	"saved_path", "discovered_at",
}

// CSVSink writes discovery rows to a CSV file, one row per discovered
// document, flushing after every row so an interrupted run keeps what it
// found.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// NewCSVSink creates the output file and writes the header.
func NewCSVSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sink: create %s", path)
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, eris.Wrap(err, "sink: write header")
	}
	w.Flush()
	return &CSVSink{f: f, w: w}, nil
}

func (s *CSVSink) Add(row model.DiscoveryRow) error {
	c := row.Candidate
	record := []string{
		row.Institution.UnitID,
		row.Institution.Name,
		row.Institution.State,
		row.Institution.Domain,
		c.Title,
		c.FinalURL,
		strconv.Itoa(c.StatusCode),
		c.ContentType,
		c.QueryUsed,
		strconv.Itoa(c.KeywordHits),
		string(c.Confidence),
		strconv.FormatBool(c.HeuristicMatch),
		c.SavedPath,
		c.DiscoveredAt.UTC().Format(time.RFC3339),
	}
	if err := s.w.Write(record); err != nil {
		return eris.Wrap(err, "sink: write row")
	}
	s.w.Flush()
	return eris.Wrap(s.w.Error(), "sink: flush")
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.f.Close()
		return eris.Wrap(err, "sink: flush")
	}
	return eris.Wrap(s.f.Close(), "sink: close")
}
