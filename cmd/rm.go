package cmd

import (
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <habit>",
	Aliases: []string{"delete"},
	Short:   "Delete a habit and all of its completions",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		h, err := resolveHabit(cmd.Context(), c, args[0])
		if err != nil {
			return err
		}
		if err := c.DeleteHabit(cmd.Context(), h.ID); err != nil {
			return err
		}
		cmd.Printf("Deleted %s\n", h.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
