package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reviewmycoach/coach-scout/internal/extract"
	"github.com/reviewmycoach/coach-scout/internal/ocr"
	"github.com/reviewmycoach/coach-scout/internal/profile"
)

var (
	extractOut          string
	extractSport        string
	extractLocation     string
	extractOrganization string
	extractSourceURL    string
)

// documentText returns the plain text of a directory document. Text files
// pass through unchanged; anything else goes through the configured OCR
// provider. OCR failures are surfaced here, not swallowed.
func documentText(ctx context.Context, path string) (string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".txt") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", eris.Wrapf(err, "read text file %s", path)
		}
		return string(raw), nil
	}

	extractor, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		return "", err
	}
	text, err := extractor.ExtractText(ctx, path)
	if err != nil {
		return "", eris.Wrapf(err, "extract text from %s", path)
	}
	return text, nil
}

func batchContext() profile.BatchContext {
	ctx := profile.BatchContext{
		DefaultSport: cfg.Profile.DefaultSport,
		Location:     cfg.Profile.Location,
		Organization: cfg.Profile.Organization,
		SourceURL:    cfg.Profile.SourceURL,
	}
	if extractSport != "" {
		ctx.DefaultSport = extractSport
	}
	if extractLocation != "" {
		ctx.Location = extractLocation
	}
	if extractOrganization != "" {
		ctx.Organization = extractOrganization
	}
	if extractSourceURL != "" {
		ctx.SourceURL = extractSourceURL
	}
	return ctx
}

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract coach profiles from a directory document",
	Long:  "Parses a harvested directory PDF (or plain text file) into coach entries and maps them to claimable profile records.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text, err := documentText(ctx, args[0])
		if err != nil {
			return err
		}

		entries := extract.Entries(text)
		if len(entries) == 0 {
			zap.L().Warn("no coach entries found", zap.String("document", args[0]))
		}

		table, err := profile.LoadSportTable(cfg.Profile.SportsTable)
		if err != nil {
			return err
		}
		mapper := profile.NewMapper(table, batchContext())
		profiles := mapper.MapAll(entries)

		out := os.Stdout
		if extractOut != "" {
			f, err := os.Create(extractOut)
			if err != nil {
				return eris.Wrapf(err, "create output file %s", extractOut)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(profiles); err != nil {
			return eris.Wrap(err, "encode profiles")
		}

		zap.L().Info("extract complete",
			zap.String("document", args[0]),
			zap.Int("coaches", len(profiles)),
		)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractOut, "out", "", "write profiles JSON to this path instead of stdout")
	extractCmd.Flags().StringVar(&extractSport, "sport", "", "default sport when a line names none")
	extractCmd.Flags().StringVar(&extractLocation, "location", "", "location for every profile in this batch")
	extractCmd.Flags().StringVar(&extractOrganization, "organization", "", "organization for every profile in this batch")
	extractCmd.Flags().StringVar(&extractSourceURL, "source-url", "", "source attribution for every profile in this batch")
	rootCmd.AddCommand(extractCmd)
}
