package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/traincore/certassist/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "certassist",
	Short: "AI assistant and document pipeline for training and certificate management",
	Long:  "Dispatches assistant requests to tool handlers, extracts structured fields from uploaded certificate documents, and applies record changes through an audited mutation layer.",
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
