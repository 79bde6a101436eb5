package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tempus/internal/config"
	"github.com/tempus/internal/storage"
)

var (
	cfg *config.Config
	db  *storage.Database
)

var rootCmd = &cobra.Command{
	Use:   "tempus",
	Short: "Hours-vs-target reporting for timewarrior streams",
	Long: `Tempus turns a timewarrior export stream into a per-day and per-week
report of hours worked against your configured target, adjusting for
holidays and excluding configured tags from the totals.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		return cfg.Validate()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

// ensureDB opens the interval store lazily so the report path never touches
// the database.
func ensureDB() (*storage.Database, error) {
	if db == nil {
		var err error
		db, err = storage.New(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
	}
	return db, nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
