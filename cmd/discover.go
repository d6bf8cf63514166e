package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reviewmycoach/coach-scout/internal/discovery"
	"github.com/reviewmycoach/coach-scout/internal/ingest"
	"github.com/reviewmycoach/coach-scout/internal/model"
	"github.com/reviewmycoach/coach-scout/internal/render"
	"github.com/reviewmycoach/coach-scout/internal/store"
	"github.com/reviewmycoach/coach-scout/pkg/customsearch"
)

var (
	discoverInstitutionsPath string
	discoverStates           []string
	discoverLimit            int
	discoverOut              string
	discoverSaveDB           bool
)

// collectSink tees rows into the primary sink while keeping them in memory
// for the optional database write at the end of the run.
type collectSink struct {
	inner discovery.Sink
	rows  []model.DiscoveryRow
}

func (s *collectSink) Add(row model.DiscoveryRow) error {
	s.rows = append(s.rows, row)
	return s.inner.Add(row)
}

func (s *collectSink) Close() error { return s.inner.Close() }

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover athletics staff directory documents for institutions",
	Long:  "Runs search queries per institution, classifies and probes candidate documents, downloads matches, and writes one CSV row per discovered document.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Search.APIKey == "" {
			return eris.New("search API key is required (COACHSCOUT_SEARCH_API_KEY)")
		}
		if cfg.Search.CX == "" {
			return eris.New("search engine ID is required (COACHSCOUT_SEARCH_CX)")
		}

		instPath := discoverInstitutionsPath
		if instPath == "" {
			instPath = cfg.Institutions.Path
		}
		if instPath == "" {
			return eris.New("institutions file is required (--institutions or institutions.path)")
		}

		institutions, err := ingest.Load(instPath)
		if err != nil {
			return err
		}
		states := discoverStates
		if len(states) == 0 {
			states = cfg.Institutions.StatesFilter
		}
		institutions = ingest.FilterStates(institutions, states)
		if discoverLimit > 0 && len(institutions) > discoverLimit {
			institutions = institutions[:discoverLimit]
		}
		if len(institutions) == 0 {
			return eris.New("no institutions to process after filtering")
		}

		if err := os.MkdirAll(cfg.Discovery.OutputDir, 0o755); err != nil {
			return eris.Wrapf(err, "create output dir %s", cfg.Discovery.OutputDir)
		}
		outPath := discoverOut
		if outPath == "" {
			outPath = filepath.Join(cfg.Discovery.OutputDir,
				fmt.Sprintf("discovery_%s.csv", time.Now().UTC().Format("20060102_150405")))
		}
		csvSink, err := discovery.NewCSVSink(outPath)
		if err != nil {
			return err
		}
		sink := &collectSink{inner: csvSink}
		defer sink.Close() //nolint:errcheck

		var renderer render.Renderer = render.Nop{}
		if cfg.Render.Enabled {
			r, err := render.NewRodRenderer()
			if err != nil {
				zap.L().Warn("renderer unavailable, continuing without HTML rendering", zap.Error(err))
			} else {
				renderer = r
				defer r.Close() //nolint:errcheck
			}
		}

		search := customsearch.NewClient(cfg.Search.APIKey, cfg.Search.CX)
		d := discovery.NewDiscoverer(search, renderer, &cfg.Discovery,
			time.Duration(cfg.Search.DelayMs)*time.Millisecond)

		summary, err := d.Run(ctx, institutions, sink)
		if err != nil {
			return eris.Wrap(err, "discovery run")
		}

		if discoverSaveDB && len(sink.rows) > 0 {
			st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			n, err := st.SaveDiscoveryRows(ctx, summary.RunID, sink.rows)
			if err != nil {
				return err
			}
			zap.L().Info("discovery rows persisted", zap.Int64("rows", n))
		}

		zap.L().Info("discover complete",
			zap.String("run_id", summary.RunID),
			zap.Int("institutions", summary.Institutions),
			zap.Int("documents", summary.Rows),
			zap.Int("downloads", summary.Downloads),
			zap.Int("api_calls", summary.APICalls),
			zap.String("out", outPath),
		)
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverInstitutionsPath, "institutions", "", "path to institutions file (CSV, XLSX, or ZIP)")
	discoverCmd.Flags().StringSliceVar(&discoverStates, "states", nil, "state abbreviations to include (e.g. NJ,PA)")
	discoverCmd.Flags().IntVar(&discoverLimit, "limit", 0, "process at most N institutions (0 = all)")
	discoverCmd.Flags().StringVar(&discoverOut, "out", "", "output CSV path (default: output dir, timestamped)")
	discoverCmd.Flags().BoolVar(&discoverSaveDB, "save-db", false, "also persist discovery rows to the configured store")
	rootCmd.AddCommand(discoverCmd)
}
