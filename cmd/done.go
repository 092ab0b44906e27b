package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var doneDuration time.Duration

var doneCmd = &cobra.Command{
	Use:   "done <habit>",
	Short: "Record a completion without running a timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return done(cmd, args[0], doneDuration)
	},
}

func init() {
	doneCmd.Flags().DurationVarP(&doneDuration, "duration", "d", 0, "time spent, e.g. 20m")
	rootCmd.AddCommand(doneCmd)
}

func done(cmd *cobra.Command, ref string, d time.Duration) error {
	c := newClient()
	h, err := resolveHabit(cmd.Context(), c, ref)
	if err != nil {
		return err
	}
	res, err := c.Complete(cmd.Context(), h.ID, int(d/time.Second))
	if err != nil {
		return err
	}
	cmd.Printf("Completed %s at %s\n", h.Name, res.Completion.CompletedAt.Local().Format("15:04"))
	return nil
}
