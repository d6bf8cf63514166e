package model

import "time"

// Confidence classifies how strongly a discovered document looks like a staff
// directory.
type Confidence string

const (
	// ConfidenceHigh means the keyword probe met its hit threshold.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium means the document was rendered from an HTML page and
	// was not content-verified.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow means only the URL/metadata heuristic matched.
	ConfidenceLow Confidence = "low"
)

// DocumentCandidate is one discovered directory document. Identity is the
// source URL; the discoverer dedupes candidates across the whole run.
type DocumentCandidate struct {
	URL            string     `json:"url"`
	FinalURL       string     `json:"final_url"`
	Title          string     `json:"title"`
	StatusCode     int        `json:"status_code"`
	ContentType    string     `json:"content_type"`
	Confidence     Confidence `json:"confidence"`
	KeywordHits    int        `json:"keyword_hits"`
	HeuristicMatch bool       `json:"heuristic_match"`
	SavedPath      string     `json:"saved_path,omitempty"`
	QueryUsed      string     `json:"query_used"`
	DiscoveredAt   time.Time  `json:"discovered_at"`
}

// DiscoveryRow is one output-dataset row: a candidate joined with the
// institution that produced it.
type DiscoveryRow struct {
	Institution Institution       `json:"institution"`
	Candidate   DocumentCandidate `json:"candidate"`
}

// RunSummary reports what a discovery run produced.
type RunSummary struct {
	RunID        string `json:"run_id"`
	Institutions int    `json:"institutions"`
	Rows         int    `json:"rows"`
	Downloads    int    `json:"downloads"`
	APICalls     int    `json:"api_calls"`
}
