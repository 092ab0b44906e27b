package cmd

import (
	"os"

	"github.com/brk3/habiterm/internal/apiclient"
	"github.com/brk3/habiterm/internal/config"
	"github.com/brk3/habiterm/internal/logger"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "habiterm",
	Short: "Track daily and weekly habits with timed focus sessions",
	Long: `
	habiterm keeps a small set of habits, each with a session length and either a
	daily or N-times-a-week target. Start a timed session for a habit, record
	completions, and see what is still due today and how the last week went.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		return logger.Setup(logger.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			File:   cfg.Log.File,
		})
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(cfg.APIBaseURL, cfg.AuthToken)
}
