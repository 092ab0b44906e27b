package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/brk3/habiterm/internal/config"
	"github.com/brk3/habiterm/internal/notify"
	"github.com/brk3/habiterm/internal/nudge/resend"
	"github.com/brk3/habiterm/internal/timer"
	"github.com/brk3/habiterm/internal/tui"
	"github.com/spf13/cobra"
)

var timerCmd = &cobra.Command{
	Use:   "timer <habit>",
	Short: "Run a timed session for a habit",
	Long: `The "timer" command opens a countdown sized to the habit's session length.
Press space to start or pause, r to reset, c to record a completion with the
time spent so far, and q to quit without recording.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimer(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(timerCmd)
}

func timerNotifier(c *config.Config) (timer.Notifier, error) {
	switch c.Timer.Notify {
	case config.TimerNotifyBell:
		return notify.NewScheduler(notify.Bell{W: os.Stderr}), nil
	case config.TimerNotifyEmail:
		key, err := c.ResendAPIKey()
		if err != nil {
			return nil, err
		}
		if c.Resend.To == "" {
			return nil, errors.New("resend.to is required for email notifications")
		}
		return notify.NewScheduler(resend.New(key, c.Resend.From, c.Resend.To)), nil
	default:
		return timer.NopNotifier{}, nil
	}
}

func runTimer(cmd *cobra.Command, ref string) error {
	c := newClient()
	h, err := resolveHabit(cmd.Context(), c, ref)
	if err != nil {
		return err
	}
	n, err := timerNotifier(cfg)
	if err != nil {
		return err
	}

	complete := func(elapsed time.Duration) error {
		_, err := c.Complete(cmd.Context(), h.ID, int(elapsed/time.Second))
		return err
	}
	return tui.Run(h, n, complete)
}
