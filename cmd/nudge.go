package cmd

import (
	"errors"
	"strings"

	"github.com/brk3/habiterm/internal/nudge"
	"github.com/brk3/habiterm/internal/nudge/resend"

	"github.com/spf13/cobra"
)

var nudgeCmd = &cobra.Command{
	Use:   "nudge",
	Short: "Email a reminder listing habits still due today",
	Long: `The "nudge" command emails the habits that are due today and not yet done.
It sends nothing when the day is complete, so it is safe to run from cron.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey, err := cfg.ResendAPIKey()
		if err != nil {
			return err
		}
		if cfg.Resend.To == "" {
			return errors.New("resend.to (or HABITERM_NOTIFY_EMAIL) must be set")
		}

		n := resend.New(apiKey, cfg.Resend.From, cfg.Resend.To)
		sent, err := nudge.Nudge(cmd.Context(), newClient(), n)
		if err != nil {
			return err
		}
		if len(sent) == 0 {
			cmd.Println("Nothing pending today.")
			return nil
		}
		cmd.Printf("Reminded %s about: %s\n", cfg.Resend.To, strings.Join(sent, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nudgeCmd)
}
