package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reviewmycoach/coach-scout/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "coach-scout",
	Short: "Athletics staff directory discovery and coach contact extraction",
	Long:  "Discovers publicly posted athletics staff directories for a list of institutions, harvests the documents, and extracts coach contact records into claimable profiles.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
