package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewmycoach/coach-scout/internal/config"
	"github.com/reviewmycoach/coach-scout/internal/model"
	"github.com/reviewmycoach/coach-scout/internal/render"
	"github.com/reviewmycoach/coach-scout/pkg/customsearch"
)

// mockSearch serves canned results keyed by query. Queries without an entry
// return an empty page. Every call is recorded.
type mockSearch struct {
	results map[string][]customsearch.Result
	err     error
	calls   int
}

func (m *mockSearch) Search(_ context.Context, query string, start int) ([]customsearch.Result, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if start > 1 {
		return nil, nil
	}
	return m.results[query], nil
}

// memorySink collects rows in memory.
type memorySink struct {
	rows []model.DiscoveryRow
}

func (s *memorySink) Add(row model.DiscoveryRow) error { s.rows = append(s.rows, row); return nil }
func (s *memorySink) Close() error                     { return nil }

func testDiscoveryConfig(t *testing.T) *config.DiscoveryConfig {
	t.Helper()
	return &config.DiscoveryConfig{
		QueriesPerSchool:     6,
		PerQueryMaxPages:     3,
		MaxResultsPerSchool:  5,
		MaxHTMLDocsPerResult: 3,
		TimeoutSecs:          5,
		KeywordProbeBytes:    120000,
		MinKeywordHits:       1,
		Download:             true,
		OutputDir:            t.TempDir(),
		DocDir:               "pdfs",
		ProbeHTMLForDocs:     true,
		ProbeCommonPaths:     false,
		DownloadFromFallback: false,
	}
}

func TestDiscovererPDFHit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("Athletics Staff Directory\nHead Coach: Mike Dickson"))
	}))
	defer srv.Close()

	inst := model.Institution{UnitID: "184782", Name: "Rowan University", State: "NJ", Domain: "rowan.edu"}
	docURL := srv.URL + "/athletics/staff.pdf"
	search := &mockSearch{results: map[string][]customsearch.Result{
		BuildQueries(inst.Name, inst.Domain, "")[0]: {
			{Title: "Athletics Staff Directory", Link: docURL, Snippet: "coaches and staff"},
		},
	}}

	cfg := testDiscoveryConfig(t)
	d := NewDiscoverer(search, render.Nop{}, cfg, 0)
	sink := &memorySink{}

	summary, err := d.Run(context.Background(), []model.Institution{inst}, sink)
	require.NoError(t, err)

	require.Len(t, sink.rows, 1)
	row := sink.rows[0]
	assert.Equal(t, "Rowan University", row.Institution.Name)
	assert.Equal(t, docURL, row.Candidate.URL)
	assert.Equal(t, model.ConfidenceHigh, row.Candidate.Confidence)
	assert.True(t, row.Candidate.HeuristicMatch)
	assert.Positive(t, row.Candidate.KeywordHits)
	assert.Equal(t, BuildQueries(inst.Name, inst.Domain, "")[0], row.Candidate.QueryUsed)

	require.NotEmpty(t, row.Candidate.SavedPath)
	_, statErr := os.Stat(row.Candidate.SavedPath)
	assert.NoError(t, statErr)
	assert.Equal(t, filepath.Join(cfg.OutputDir, cfg.DocDir), filepath.Dir(row.Candidate.SavedPath))

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 1, summary.Institutions)
	assert.Equal(t, 1, summary.Rows)
	assert.Equal(t, 1, summary.Downloads)
	assert.Equal(t, search.calls, summary.APICalls)
}

func TestDiscovererDedupAcrossQueries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("staff directory"))
	}))
	defer srv.Close()

	inst := model.Institution{Name: "Rowan University", Domain: "rowan.edu"}
	docURL := srv.URL + "/staff.pdf"
	queries := BuildQueries(inst.Name, inst.Domain, "")
	hit := []customsearch.Result{{Title: "Staff Directory", Link: docURL}}
	search := &mockSearch{results: map[string][]customsearch.Result{
		queries[0]: hit,
		queries[1]: hit,
	}}

	cfg := testDiscoveryConfig(t)
	cfg.Download = false
	d := NewDiscoverer(search, render.Nop{}, cfg, 0)
	sink := &memorySink{}

	_, err := d.Run(context.Background(), []model.Institution{inst}, sink)
	require.NoError(t, err)
	assert.Len(t, sink.rows, 1, "same URL from a second query must not produce a second row")
}

// stubRenderer writes a placeholder document and records every render call.
type stubRenderer struct{ calls int }

func (r *stubRenderer) RenderPDF(_ context.Context, _ string, outPath string) error {
	r.calls++
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte("%PDF-1.4"), 0o644)
}

func (r *stubRenderer) Close() error { return nil }

func TestDiscovererRenderedPageDedupAcrossQueries(t *testing.T) {
	inst := model.Institution{Name: "Rowan University", Domain: "rowan.edu"}
	pageURL := "https://rowan.edu/athletics/staff-directory"
	queries := BuildQueries(inst.Name, inst.Domain, "")
	hit := []customsearch.Result{{Title: "Athletics Staff Directory", Link: pageURL, Snippet: "coaches"}}
	search := &mockSearch{results: map[string][]customsearch.Result{
		queries[0]: hit,
		queries[1]: hit,
	}}

	cfg := testDiscoveryConfig(t)
	cfg.ProbeHTMLForDocs = false
	renderer := &stubRenderer{}
	d := NewDiscoverer(search, renderer, cfg, 0)
	sink := &memorySink{}

	_, err := d.Run(context.Background(), []model.Institution{inst}, sink)
	require.NoError(t, err)

	require.Len(t, sink.rows, 1, "same page URL from a second query must not produce a second rendered row")
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, pageURL, sink.rows[0].Candidate.URL)
	assert.Equal(t, model.ConfidenceMedium, sink.rows[0].Candidate.Confidence)
}

func TestDiscovererHTMLProbe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/staff-directory", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="/files/coaches.pdf">Coaches</a></body></html>`))
	})
	mux.HandleFunc("/files/coaches.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("coaching staff"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	inst := model.Institution{Name: "Rowan University", Domain: "rowan.edu"}
	pageURL := srv.URL + "/staff-directory"
	search := &mockSearch{results: map[string][]customsearch.Result{
		BuildQueries(inst.Name, inst.Domain, "")[0]: {
			{Title: "Athletics Staff Directory", Link: pageURL, Snippet: "meet the staff"},
		},
	}}

	cfg := testDiscoveryConfig(t)
	cfg.Download = false
	d := NewDiscoverer(search, render.Nop{}, cfg, 0)
	sink := &memorySink{}

	_, err := d.Run(context.Background(), []model.Institution{inst}, sink)
	require.NoError(t, err)

	require.Len(t, sink.rows, 1)
	row := sink.rows[0]
	assert.Equal(t, srv.URL+"/files/coaches.pdf", row.Candidate.URL)
	assert.Contains(t, row.Candidate.QueryUsed, "[html-probe]")
	assert.Equal(t, model.ConfidenceHigh, row.Candidate.Confidence)
}

func TestDiscovererCapsResultsPerSchool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("staff directory"))
	}))
	defer srv.Close()

	inst := model.Institution{Name: "Rowan University", Domain: "rowan.edu"}
	var hits []customsearch.Result
	for _, p := range []string{"/a.pdf", "/b.pdf", "/c.pdf", "/d.pdf"} {
		hits = append(hits, customsearch.Result{Title: "Staff Directory", Link: srv.URL + p})
	}
	search := &mockSearch{results: map[string][]customsearch.Result{
		BuildQueries(inst.Name, inst.Domain, "")[0]: hits,
	}}

	cfg := testDiscoveryConfig(t)
	cfg.Download = false
	cfg.MaxResultsPerSchool = 2
	d := NewDiscoverer(search, render.Nop{}, cfg, 0)
	sink := &memorySink{}

	_, err := d.Run(context.Background(), []model.Institution{inst}, sink)
	require.NoError(t, err)
	assert.Len(t, sink.rows, 2)
}

func TestDiscovererSearchFailureMovesOn(t *testing.T) {
	search := &mockSearch{err: assert.AnError}
	inst := model.Institution{Name: "Rowan University", Domain: "rowan.edu"}

	cfg := testDiscoveryConfig(t)
	cfg.Download = false
	d := NewDiscoverer(search, render.Nop{}, cfg, 0)
	sink := &memorySink{}

	summary, err := d.Run(context.Background(), []model.Institution{inst}, sink)
	require.NoError(t, err, "a failing search API must not fail the run")
	assert.Empty(t, sink.rows)
	assert.Equal(t, 1, summary.Institutions)
	// One call per query, no pagination after a failure.
	assert.Equal(t, cfg.QueriesPerSchool, search.calls)
}

func TestDiscovererUnreachableCandidateProducesNoRow(t *testing.T) {
	inst := model.Institution{Name: "Rowan University", Domain: "rowan.edu"}
	search := &mockSearch{results: map[string][]customsearch.Result{
		BuildQueries(inst.Name, inst.Domain, "")[0]: {
			{Title: "Staff Directory", Link: "http://127.0.0.1:1/staff.pdf"},
		},
	}}

	cfg := testDiscoveryConfig(t)
	cfg.Download = false
	cfg.TimeoutSecs = 1
	d := NewDiscoverer(search, render.Nop{}, cfg, 0)
	sink := &memorySink{}

	_, err := d.Run(context.Background(), []model.Institution{inst}, sink)
	require.NoError(t, err)
	assert.Empty(t, sink.rows)
}

func TestDiscovererSkipsEmptyDomain(t *testing.T) {
	search := &mockSearch{}
	cfg := testDiscoveryConfig(t)
	d := NewDiscoverer(search, render.Nop{}, cfg, 0)

	summary, err := d.Run(context.Background(), []model.Institution{{Name: "No Website College"}}, &memorySink{})
	require.NoError(t, err)
	assert.Zero(t, summary.Institutions)
	assert.Zero(t, search.calls)
}

func TestDiscovererRateLimiterPacesSearches(t *testing.T) {
	search := &mockSearch{}
	inst := model.Institution{Name: "Rowan University", Domain: "rowan.edu"}

	cfg := testDiscoveryConfig(t)
	cfg.QueriesPerSchool = 3
	d := NewDiscoverer(search, render.Nop{}, cfg, 20*time.Millisecond)

	start := time.Now()
	_, err := d.Run(context.Background(), []model.Institution{inst}, &memorySink{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}
