// Package workflow runs the two steps of a fare scan: creating the session
// grid and polling it into a worksheet.
package workflow

import (
	"context"
	"fmt"

	"farescan/internal/components/telemetry"
	"farescan/internal/config"
	"farescan/internal/grid"
	"farescan/internal/poller"
	"farescan/internal/sessions"
	"farescan/internal/sheets"
	"farescan/internal/skyscanner"
	"farescan/lib/restyutil"
)

// NewClient builds the pricing api client for a run.
func NewClient(run config.Run, creds config.Credentials, tel telemetry.API) (*skyscanner.Client, error) {
	opts := skyscanner.ClientOptions{
		BaseUrl:   run.Api.BaseUrl,
		ApiKey:    creds.RapidApiKey,
		Telemetry: tel,
	}
	if run.Api.DumpDir != "" {
		out, err := restyutil.NewFilesystemOutput(run.Api.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("prepare dump dir: %w", err)
		}
		opts.Dump = out
	}
	return skyscanner.NewClient(opts)
}

// CreateSessions generates the session grid and persists it to the
// sessions file. Nothing is written when generation fails.
func CreateSessions(ctx context.Context, run config.Run, creator sessions.SessionCreator, tel telemetry.API) (grid.Grid, error) {
	generator := sessions.NewGenerator(creator, tel)
	out, err := generator.Generate(ctx, sessions.GenerateRequest{
		Trip:      run.Trip,
		Arrival:   run.Arrival,
		Departure: run.Departure,
	})
	if err != nil {
		return nil, err
	}
	err = grid.WriteFile(run.SessionsFile, out)
	if err != nil {
		return nil, fmt.Errorf("write sessions file: %w", err)
	}
	return out, nil
}

// PollPrices reads the session grid back and writes the cheapest fare of
// every session into the worksheet.
func PollPrices(ctx context.Context, run config.Run, sessionPoller poller.SessionPoller, sheet sheets.Worksheet, tel telemetry.API) error {
	sessionGrid, err := grid.ReadFile(run.SessionsFile)
	if err != nil {
		return fmt.Errorf("read sessions file: %w", err)
	}
	return poller.NewPoller(sessionPoller, sheet, run.Origin, tel).Run(ctx, sessionGrid)
}
