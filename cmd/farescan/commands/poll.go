package commands

import (
	"fmt"
	"log/slog"

	"farescan/internal/components/telemetry"
	"farescan/internal/sheets"
	"farescan/internal/workflow"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(pollCmd)
}

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll every saved session and write its cheapest fare to the spreadsheet.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, creds, err := loadRun()
		if err != nil {
			return err
		}
		err = run.Spreadsheet.Validate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		tel := telemetry.SlogAPI{}

		client, err := workflow.NewClient(run, creds, tel)
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}

		sheet, err := sheets.Open(cmd.Context(), run.Spreadsheet, creds.DriveCreds)
		if err != nil {
			return fmt.Errorf("open spreadsheet: %w", err)
		}
		defer sheet.Close()

		err = workflow.PollPrices(cmd.Context(), run, client, sheet, tel)
		if err != nil {
			return fmt.Errorf("poll prices: %w", err)
		}
		slog.Info("done")
		return nil
	},
}
