package commands

import (
	"fmt"
	"log/slog"

	"farescan/internal/components/telemetry"
	"farescan/internal/workflow"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Create a pricing session for every pair of dates and save the grid.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, creds, err := loadRun()
		if err != nil {
			return err
		}
		tel := telemetry.SlogAPI{}

		client, err := workflow.NewClient(run, creds, tel)
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}

		sessionGrid, err := workflow.CreateSessions(cmd.Context(), run, client, tel)
		if err != nil {
			return fmt.Errorf("create sessions: %w", err)
		}
		slog.Info("saved sessions", "path", run.SessionsFile)

		renderGrid(sessionGrid, run.Arrival, run.Departure)
		return nil
	},
}
