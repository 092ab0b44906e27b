package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	Long:  `The "list" command lists your habits in display order.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return list(cmd)
	},
}

func list(cmd *cobra.Command) error {
	habits, err := newClient().ListHabits(cmd.Context())
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		cmd.Println("No habits yet. Add one with: habiterm add <name>")
		return nil
	}

	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		rows = append(rows, []string{
			shortID(h.ID),
			h.Name,
			h.Frequency.String(),
			fmt.Sprintf("%d min", h.TimeLimitMinutes),
			strconv.Itoa(len(h.Completions)),
		})
	}
	cmd.Println(renderTable([]string{"ID", "NAME", "FREQUENCY", "SESSION", "DONE"}, rows))
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
}
