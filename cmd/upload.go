package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reviewmycoach/coach-scout/internal/extract"
	"github.com/reviewmycoach/coach-scout/internal/model"
	"github.com/reviewmycoach/coach-scout/internal/profile"
	"github.com/reviewmycoach/coach-scout/internal/store"
)

var uploadDryRun bool

// loadProfiles reads the upload input: either a profiles JSON file produced
// by the extract command, or a directory document that goes through the
// full extract-and-map chain first.
func loadProfiles(cmd *cobra.Command, path string) ([]model.CoachProfile, error) {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "read profiles %s", path)
		}
		var profiles []model.CoachProfile
		if err := json.Unmarshal(raw, &profiles); err != nil {
			return nil, eris.Wrapf(err, "parse profiles %s", path)
		}
		return profiles, nil
	}

	text, err := documentText(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	table, err := profile.LoadSportTable(cfg.Profile.SportsTable)
	if err != nil {
		return nil, err
	}
	mapper := profile.NewMapper(table, batchContext())
	return mapper.MapAll(extract.Entries(text)), nil
}

var uploadCmd = &cobra.Command{
	Use:   "upload <document-or-profiles.json>",
	Short: "Upsert coach profiles into the store",
	Long:  "Writes coach profiles to the configured store, keyed by username. Profiles already claimed by a coach are never overwritten.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		profiles, err := loadProfiles(cmd, args[0])
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			return eris.Errorf("no coach profiles in %s", args[0])
		}

		if uploadDryRun {
			for _, p := range profiles {
				zap.L().Info("would upsert profile",
					zap.String("username", p.Username),
					zap.String("name", p.DisplayName),
					zap.String("email", p.Email),
					zap.String("phone", p.PhoneNumber),
				)
			}
			zap.L().Info("dry run complete", zap.Int("profiles", len(profiles)))
			return nil
		}

		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		summary, err := store.UpsertAll(ctx, st, profiles)
		if err != nil {
			return err
		}

		zap.L().Info("upload complete",
			zap.Int("created", summary.Created),
			zap.Int("updated", summary.Updated),
			zap.Int("skipped", summary.Skipped),
		)
		return nil
	},
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadDryRun, "dry-run", false, "print what would be uploaded without writing to the store")
	uploadCmd.Flags().StringVar(&extractSport, "sport", "", "default sport when extracting from a document")
	rootCmd.AddCommand(uploadCmd)
}
