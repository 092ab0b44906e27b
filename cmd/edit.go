package cmd

import (
	"errors"

	"github.com/brk3/habiterm/pkg/habit"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <habit>",
	Short: "Change a habit's name, session length or frequency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := editFromFlags(cmd)
		if err != nil {
			return err
		}
		return edit(cmd, args[0], e)
	},
}

func init() {
	editCmd.Flags().String("name", "", "new name")
	editCmd.Flags().IntP("minutes", "m", 0, "new session length in minutes (1-120)")
	editCmd.Flags().IntP("weekly", "w", 0, "times per week (1-6)")
	editCmd.Flags().Bool("daily", false, "make the habit daily")
	editCmd.MarkFlagsMutuallyExclusive("weekly", "daily")
	rootCmd.AddCommand(editCmd)
}

// editFromFlags only sets the fields whose flags were given.
func editFromFlags(cmd *cobra.Command) (habit.Edit, error) {
	var e habit.Edit
	flags := cmd.Flags()
	if flags.Changed("name") {
		name, _ := flags.GetString("name")
		e.Name = &name
	}
	if flags.Changed("minutes") {
		minutes, _ := flags.GetInt("minutes")
		e.TimeLimitMinutes = &minutes
	}
	if flags.Changed("weekly") {
		n, _ := flags.GetInt("weekly")
		freq, err := habit.WeeklyN(n)
		if err != nil {
			return habit.Edit{}, err
		}
		e.Frequency = &freq
	}
	if daily, _ := flags.GetBool("daily"); daily {
		freq := habit.Daily()
		e.Frequency = &freq
	}
	if e.Name == nil && e.TimeLimitMinutes == nil && e.Frequency == nil {
		return habit.Edit{}, errors.New("nothing to change, see --help")
	}
	return e, nil
}

func edit(cmd *cobra.Command, ref string, e habit.Edit) error {
	c := newClient()
	h, err := resolveHabit(cmd.Context(), c, ref)
	if err != nil {
		return err
	}
	h, err = c.UpdateHabit(cmd.Context(), h.ID, e)
	if err != nil {
		return err
	}
	cmd.Printf("Updated %s (%s, %d min)\n", h.Name, h.Frequency, h.TimeLimitMinutes)
	return nil
}
