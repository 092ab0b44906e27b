package cmd

import (
	"fmt"
	"time"

	"github.com/brk3/habiterm/internal/service"
	"github.com/spf13/cobra"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the last seven days for every habit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return week(cmd)
	},
}

func init() {
	rootCmd.AddCommand(weekCmd)
}

func cellMark(c service.CellStatus) string {
	switch c {
	case service.CellDone:
		return doneStyle.Render("●")
	case service.CellMissed:
		return missedStyle.Render("○")
	default:
		return mutedStyle.Render("·")
	}
}

func week(cmd *cobra.Command) error {
	w, err := newClient().Week(cmd.Context())
	if err != nil {
		return err
	}
	if len(w.Rows) == 0 {
		cmd.Println("No habits yet. Add one with: habiterm add <name>")
		return nil
	}

	headers := []string{"HABIT"}
	for _, d := range w.Days {
		headers = append(headers, d.Format("Mon")[:2])
	}
	headers = append(headers, "WEEK", "FOCUS")

	rows := make([][]string, 0, len(w.Rows))
	for _, r := range w.Rows {
		row := []string{r.Name}
		for _, c := range r.Cells {
			row = append(row, cellMark(c))
		}
		row = append(row,
			fmt.Sprintf("%d/%d", r.ThisWeek, r.Target),
			r.FocusTime.Round(time.Minute).String(),
		)
		rows = append(rows, row)
	}
	cmd.Println(renderTable(headers, rows))
	return nil
}
