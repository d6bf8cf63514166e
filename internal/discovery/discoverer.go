package discovery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/reviewmycoach/coach-scout/internal/config"
	"github.com/reviewmycoach/coach-scout/internal/model"
	"github.com/reviewmycoach/coach-scout/internal/render"
	"github.com/reviewmycoach/coach-scout/pkg/customsearch"
)

// Discoverer runs the full discovery pipeline for a batch of institutions.
// Execution is strictly sequential: one institution completes before the
// next begins, and every network call blocks under its own timeout.
type Discoverer struct {
	search     customsearch.Client
	prober     *Prober
	miner      *Miner
	downloader *Downloader
	fallback   *FallbackProber
	renderer   render.Renderer
	limiter    *rate.Limiter
	cfg        *config.DiscoveryConfig
	docDir     string
}

// runState is the only mutable state shared across an entire run: the global
// seen-URL set and counters. It is owned by Run and never accessed
// concurrently.
type runState struct {
	seen     map[string]bool
	rows     int
	saved    int
	apiCalls int
}

// NewDiscoverer wires the pipeline. searchDelay paces search API calls; it
// is the only scheduling control in the system.
func NewDiscoverer(search customsearch.Client, renderer render.Renderer, cfg *config.DiscoveryConfig, searchDelay time.Duration) *Discoverer {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	limiter := rate.NewLimiter(rate.Inf, 1)
	if searchDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(searchDelay), 1)
	}
	return &Discoverer{
		search:     search,
		prober:     NewProber(timeout, cfg.KeywordProbeBytes, cfg.MinKeywordHits),
		miner:      NewMiner(timeout),
		downloader: NewDownloader(timeout),
		fallback:   NewFallbackProber(timeout),
		renderer:   renderer,
		limiter:    limiter,
		cfg:        cfg,
		docDir:     filepath.Join(cfg.OutputDir, cfg.DocDir),
	}
}

// Run processes every institution in order and streams rows to sink.
func (d *Discoverer) Run(ctx context.Context, institutions []model.Institution, sink Sink) (*model.RunSummary, error) {
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID))

	st := &runState{seen: make(map[string]bool)}

	processed := 0
	for _, inst := range institutions {
		if ctx.Err() != nil {
			break
		}
		if inst.Domain == "" {
			continue
		}
		found := d.processInstitution(ctx, inst, st, sink)
		processed++
		log.Info("institution processed",
			zap.String("institution", inst.Name),
			zap.String("domain", inst.Domain),
			zap.Int("documents", found),
		)
	}

	summary := &model.RunSummary{
		RunID:        runID,
		Institutions: processed,
		Rows:         st.rows,
		Downloads:    st.saved,
		APICalls:     st.apiCalls,
	}
	log.Info("discovery run complete",
		zap.Int("institutions", summary.Institutions),
		zap.Int("rows", summary.Rows),
		zap.Int("downloads", summary.Downloads),
		zap.Int("api_calls", summary.APICalls),
	)
	return summary, nil
}

// processInstitution runs the search phase and, when it yields nothing, the
// conventional-path fallback. Returns the number of rows produced.
func (d *Discoverer) processInstitution(ctx context.Context, inst model.Institution, st *runState, sink Sink) int {
	log := zap.L().With(zap.String("domain", inst.Domain))

	queries := BuildQueries(inst.Name, inst.Domain, inst.AthleticsDomain)
	if len(queries) > d.cfg.QueriesPerSchool {
		queries = queries[:d.cfg.QueriesPerSchool]
	}

	found := 0
	for _, q := range queries {
		d.runQuery(ctx, inst, q, st, sink, &found)
		if found >= d.cfg.MaxResultsPerSchool {
			break
		}
	}

	if found == 0 && d.cfg.ProbeCommonPaths {
		d.runFallback(ctx, inst, st, sink, &found)
	}

	if found == 0 {
		log.Debug("no directory documents found")
	}
	return found
}

// runQuery paginates one search query. A transport/API failure or an empty
// page stops pagination for this query only; the institution continues with
// its next query.
func (d *Discoverer) runQuery(ctx context.Context, inst model.Institution, q string, st *runState, sink Sink, found *int) {
	for page := 0; page < d.cfg.PerQueryMaxPages; page++ {
		if err := d.limiter.Wait(ctx); err != nil {
			return
		}

		start := 1 + page*10
		hits, err := d.search.Search(ctx, q, start)
		st.apiCalls++
		if err != nil {
			zap.L().Debug("search failed, abandoning query",
				zap.String("query", q),
				zap.Error(err),
			)
			return
		}
		if len(hits) == 0 {
			return
		}

		for _, hit := range hits {
			d.handleHit(ctx, inst, q, hit, st, sink, found)
			if *found >= d.cfg.MaxResultsPerSchool {
				return
			}
		}
	}
}

func (d *Discoverer) handleHit(ctx context.Context, inst model.Institution, q string, hit customsearch.Result, st *runState, sink Sink, found *int) {
	if !isPDFURL(hit.Link) {
		d.handleHTMLHit(ctx, inst, q, hit, st, sink, found)
		return
	}

	if st.seen[hit.Link] {
		return
	}
	row, ok := d.evaluateDoc(ctx, inst, hit.Link, hit.Title, hit.Snippet, q)
	if !ok {
		return
	}
	st.seen[hit.Link] = true
	d.emit(row, st, sink, found)
}

// handleHTMLHit mines a directory-looking HTML result for embedded
// documents, and optionally renders the page itself to a document when
// rendering is enabled.
func (d *Discoverer) handleHTMLHit(ctx context.Context, inst model.Institution, q string, hit customsearch.Result, st *runState, sink Sink, found *int) {
	if !HeuristicMatch(hit.Link, hit.Title, hit.Snippet) {
		return
	}

	if d.cfg.ProbeHTMLForDocs {
		added := 0
		for _, docURL := range d.miner.ExtractDocLinks(ctx, hit.Link) {
			if st.seen[docURL] {
				continue
			}
			row, ok := d.evaluateDoc(ctx, inst, docURL, hit.Title, hit.Snippet, q+" [html-probe]")
			if !ok {
				continue
			}
			st.seen[docURL] = true
			d.emit(row, st, sink, found)
			added++
			if *found >= d.cfg.MaxResultsPerSchool || added >= d.cfg.MaxHTMLDocsPerResult {
				break
			}
		}
	}

	if d.cfg.Download && *found < d.cfg.MaxResultsPerSchool {
		d.renderPage(ctx, inst, hit.Link, hit.Title, q+" [html-render]", st, sink, found)
	}
}

// evaluateDoc classifies one candidate document URL: reachability check,
// metadata heuristic, content keyword probe, optional download. ok=false
// means the URL is unreachable and produces no row.
func (d *Discoverer) evaluateDoc(ctx context.Context, inst model.Institution, docURL, title, snippet, query string) (model.DiscoveryRow, bool) {
	head, ok := d.prober.Head(ctx, docURL)
	if !ok {
		return model.DiscoveryRow{}, false
	}

	heuristic := HeuristicMatch(head.FinalURL, title, snippet)
	passed, hits := d.prober.KeywordProbe(ctx, head.FinalURL)

	confidence := model.ConfidenceLow
	if passed {
		confidence = model.ConfidenceHigh
	}

	saved := ""
	if d.cfg.Download && (passed || heuristic) {
		filename := DocFilename(inst.Name, inst.Domain, title, head.FinalURL)
		saved = d.downloader.Download(ctx, head.FinalURL, d.docDir, filename)
	}

	return model.DiscoveryRow{
		Institution: inst,
		Candidate: model.DocumentCandidate{
			URL:            docURL,
			FinalURL:       head.FinalURL,
			Title:          title,
			StatusCode:     head.StatusCode,
			ContentType:    head.ContentType,
			Confidence:     confidence,
			KeywordHits:    hits,
			HeuristicMatch: heuristic,
			SavedPath:      saved,
			QueryUsed:      query,
			DiscoveredAt:   time.Now().UTC(),
		},
	}, true
}

// renderPage renders an HTML page to a PDF document. Rendered documents are
// medium confidence: harvested but not content-verified.
func (d *Discoverer) renderPage(ctx context.Context, inst model.Institution, pageURL, title, query string, st *runState, sink Sink, found *int) {
	if st.seen[pageURL] {
		return
	}
	filename := DocFilename(inst.Name, inst.Domain, title+"_HTML", pageURL)
	outPath := filepath.Join(d.docDir, filename)
	if err := d.renderer.RenderPDF(ctx, pageURL, outPath); err != nil {
		return
	}

	st.seen[pageURL] = true
	row := model.DiscoveryRow{
		Institution: inst,
		Candidate: model.DocumentCandidate{
			URL:            pageURL,
			FinalURL:       pageURL,
			Title:          title + " (HTML rendered)",
			StatusCode:     200,
			ContentType:    "text/html",
			Confidence:     model.ConfidenceMedium,
			HeuristicMatch: true,
			SavedPath:      outPath,
			QueryUsed:      query,
			DiscoveredAt:   time.Now().UTC(),
		},
	}
	d.emit(row, st, sink, found)
}

// runFallback probes conventional staff-directory paths and harvests
// documents linked from any page that passes the signal check.
func (d *Discoverer) runFallback(ctx context.Context, inst model.Institution, st *runState, sink Sink, found *int) {
	for _, candidate := range d.fallback.CandidateURLs(inst.Domain, inst.AthleticsDomain) {
		if ctx.Err() != nil {
			return
		}
		page, ok := d.fallback.CheckPage(ctx, candidate)
		if !ok {
			continue
		}

		added := 0
		for _, docURL := range d.miner.ExtractDocLinks(ctx, page.URL) {
			if st.seen[docURL] {
				continue
			}
			head, ok := d.prober.Head(ctx, docURL)
			if !ok {
				continue
			}
			passed, hits := d.prober.KeywordProbe(ctx, head.FinalURL)
			confidence := model.ConfidenceLow
			if passed {
				confidence = model.ConfidenceHigh
			}

			saved := ""
			if d.cfg.Download && (passed || d.cfg.DownloadFromFallback) {
				filename := DocFilename(inst.Name, inst.Domain, fmt.Sprintf("StaffDirectory_%d", added+1), head.FinalURL)
				saved = d.downloader.Download(ctx, head.FinalURL, d.docDir, filename)
			}

			st.seen[docURL] = true
			row := model.DiscoveryRow{
				Institution: inst,
				Candidate: model.DocumentCandidate{
					URL:            docURL,
					FinalURL:       head.FinalURL,
					Title:          fmt.Sprintf("Linked PDF %d", added+1),
					StatusCode:     head.StatusCode,
					ContentType:    head.ContentType,
					Confidence:     confidence,
					KeywordHits:    hits,
					HeuristicMatch: true,
					SavedPath:      saved,
					QueryUsed:      "staff-url-fallback",
					DiscoveredAt:   time.Now().UTC(),
				},
			}
			d.emit(row, st, sink, found)
			added++
			if *found >= d.cfg.MaxResultsPerSchool {
				return
			}
		}

		// No linked documents: render the directory page itself when
		// rendering is available.
		if added == 0 && d.cfg.Download {
			d.renderFallbackPage(ctx, inst, page, st, sink, found)
		}
		if *found >= d.cfg.MaxResultsPerSchool {
			return
		}
	}
}

func (d *Discoverer) renderFallbackPage(ctx context.Context, inst model.Institution, page FallbackPage, st *runState, sink Sink, found *int) {
	if st.seen[page.URL] {
		return
	}
	filename := DocFilename(inst.Name, inst.Domain, "Staff_Directory_HTML", page.URL)
	outPath := filepath.Join(d.docDir, filename)
	if err := d.renderer.RenderPDF(ctx, page.URL, outPath); err != nil {
		return
	}

	st.seen[page.URL] = true
	row := model.DiscoveryRow{
		Institution: inst,
		Candidate: model.DocumentCandidate{
			URL:            page.URL,
			FinalURL:       page.URL,
			Title:          "Staff Directory (HTML rendered)",
			StatusCode:     page.StatusCode,
			ContentType:    page.ContentType,
			Confidence:     model.ConfidenceMedium,
			HeuristicMatch: true,
			SavedPath:      outPath,
			QueryUsed:      "staff-url-fallback [html-render]",
			DiscoveredAt:   time.Now().UTC(),
		},
	}
	d.emit(row, st, sink, found)
}

func (d *Discoverer) emit(row model.DiscoveryRow, st *runState, sink Sink, found *int) {
	if err := sink.Add(row); err != nil {
		zap.L().Error("sink write failed", zap.Error(err))
		return
	}
	st.rows++
	*found++
	if row.Candidate.SavedPath != "" {
		st.saved++
	}
}

func isPDFURL(u string) bool {
	return strings.HasSuffix(strings.ToLower(u), ".pdf")
}
