package cmd

import (
	"github.com/brk3/habiterm/pkg/habit"
	"github.com/spf13/cobra"
)

var (
	addMinutes int
	addWeekly  int
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a habit",
	Long: `The "add" command creates a habit. Habits are daily unless --weekly sets a
number of sessions per week (1-6).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return add(cmd, args[0], addMinutes, addWeekly)
	},
}

func init() {
	addCmd.Flags().IntVarP(&addMinutes, "minutes", "m", 25, "session length in minutes (1-120)")
	addCmd.Flags().IntVarP(&addWeekly, "weekly", "w", 0, "times per week; 0 means daily")
	rootCmd.AddCommand(addCmd)
}

func frequencyFromFlag(weekly int) (habit.Frequency, error) {
	if weekly == 0 {
		return habit.Daily(), nil
	}
	return habit.WeeklyN(weekly)
}

func add(cmd *cobra.Command, name string, minutes, weekly int) error {
	freq, err := frequencyFromFlag(weekly)
	if err != nil {
		return err
	}
	h, err := newClient().CreateHabit(cmd.Context(), habit.Draft{
		Name:             name,
		TimeLimitMinutes: minutes,
		Frequency:        freq,
	})
	if err != nil {
		return err
	}
	cmd.Printf("Added %s (%s, %d min) %s\n", h.Name, h.Frequency, h.TimeLimitMinutes, shortID(h.ID))
	return nil
}
