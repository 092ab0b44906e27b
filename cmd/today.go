package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show what is due today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return today(cmd)
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
}

func today(cmd *cobra.Command) error {
	t, err := newClient().Today(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Println(sectionStyle.Render(fmt.Sprintf("%s  %d/%d done (%.0f%%)",
		t.Date.Format("Mon 2 Jan"), t.Progress.Completed, t.Progress.Total, t.Progress.Rate()*100)))
	if t.Progress.Total == 0 {
		cmd.Println(mutedStyle.Render("Nothing due today."))
		return nil
	}
	for _, h := range t.Pending {
		cmd.Printf("  [ ] %s  %s\n", h.Name, mutedStyle.Render(fmt.Sprintf("%d min · %s", h.TimeLimitMinutes, shortID(h.ID))))
	}
	for _, h := range t.Completed {
		cmd.Printf("  %s %s\n", doneStyle.Render("[x]"), h.Name)
	}
	return nil
}
