package commands

import (
	"fmt"

	"farescan/cmd/farescan/utils"
	"farescan/internal/config"
	"farescan/internal/daterange"
	"farescan/internal/grid"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved session grid.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		run, err := cfg.Resolve()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		sessionGrid, err := grid.ReadFile(run.SessionsFile)
		if err != nil {
			return fmt.Errorf("read sessions: %w", err)
		}
		renderGrid(sessionGrid, run.Arrival, run.Departure)
		return nil
	},
}

// renderGrid prints arrivals down the side and departures across the top.
// Headers fall back to indexes when the grid doesn't match the configured
// date ranges.
func renderGrid(g grid.Grid, arrival, departure daterange.Range) {
	matches := g.Rows() == arrival.Count && g.Columns() == departure.Count

	header := table.Row{"arrival \\ departure"}
	for j := 0; j < g.Columns(); j++ {
		if matches {
			header = append(header, daterange.Format(departure.At(j)))
		} else {
			header = append(header, j)
		}
	}

	t := utils.NewTable()
	t.AppendHeader(header)
	for i, cells := range g {
		row := table.Row{i}
		if matches {
			row[0] = daterange.Format(arrival.At(i))
		}
		for _, cell := range cells {
			row = append(row, cell)
		}
		t.AppendRow(row)
	}
	t.Render()
}
