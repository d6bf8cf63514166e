package main

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reviewmycoach/coach-scout/internal/ingest"
)

var (
	institutionsStates []string
	institutionsOut    string
)

var institutionsCmd = &cobra.Command{
	Use:   "institutions <file>",
	Short: "Validate and preview an institutions file",
	Long:  "Loads an institutions file (CSV, XLSX, or IPEDS ZIP), normalizes domains, applies the state filter, and writes the usable rows as CSV.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		institutions, err := ingest.Load(args[0])
		if err != nil {
			return err
		}

		states := institutionsStates
		if len(states) == 0 {
			states = cfg.Institutions.StatesFilter
		}
		institutions = ingest.FilterStates(institutions, states)

		out := os.Stdout
		if institutionsOut != "" {
			f, err := os.Create(institutionsOut)
			if err != nil {
				return eris.Wrapf(err, "create output file %s", institutionsOut)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		w := csv.NewWriter(out)
		if err := w.Write([]string{"unitid", "name", "state", "domain", "athletics_domain"}); err != nil {
			return eris.Wrap(err, "write header")
		}
		for _, inst := range institutions {
			record := []string{inst.UnitID, inst.Name, inst.State, inst.Domain, inst.AthleticsDomain}
			if err := w.Write(record); err != nil {
				return eris.Wrapf(err, "write row for %s", inst.Name)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return eris.Wrap(err, "flush output")
		}

		zap.L().Info("institutions loaded",
			zap.String("file", args[0]),
			zap.Int("usable", len(institutions)),
			zap.Strings("states", states),
		)
		return nil
	},
}

func init() {
	institutionsCmd.Flags().StringSliceVar(&institutionsStates, "states", nil, "state abbreviations to include (e.g. NJ,PA)")
	institutionsCmd.Flags().StringVar(&institutionsOut, "out", "", "write normalized rows to this path instead of stdout")
	rootCmd.AddCommand(institutionsCmd)
}
