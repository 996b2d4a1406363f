package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"farescan/internal/config"
	"farescan/lib/telemetry"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
)

const serviceName = "farescan"

var rootCmd = &cobra.Command{
	Use:   "farescan",
	Short: "farescan records the cheapest round-trip fare over a grid of travel dates into a spreadsheet.",
	Long: `farescan runs in two steps:

  farescan sessions   open one pricing session per pair of dates and save the grid
  farescan poll       poll every saved session and write its cheapest fare to the spreadsheet

Parameters are read from config.json5 and credentials.json5 in the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

type setupFunc func(ctx context.Context, command string) (telemetry.Telemetry, error)

func setupFromEnv(ctx context.Context, command string) (telemetry.Telemetry, error) {
	return telemetry.SetupFromEnv(
		ctx,
		serviceName,
		attribute.String("farescan.command", command),
		attribute.String("farescan.run_id", strconv.FormatInt(time.Now().UnixNano(), 36)),
	)
}

// ExecuteContext runs the command named on the command line. Telemetry is
// flushed before it returns, also when the command failed.
func ExecuteContext(ctx context.Context) error {
	return execute(ctx, rootCmd, setupFromEnv)
}

func execute(ctx context.Context, root *cobra.Command, setup setupFunc) error {
	var tel telemetry.Telemetry
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		tel, err = setup(cmd.Context(), cmd.Name())
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		return nil
	}

	err := root.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdownErr := tel.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr)
	}
	return err
}

// loadRun reads and resolves the config documents in the working directory,
// before anything touches the network.
func loadRun() (config.Run, config.Credentials, error) {
	cfg, creds, err := config.Load(".")
	if err != nil {
		return config.Run{}, config.Credentials{}, fmt.Errorf("load config: %w", err)
	}
	run, err := cfg.Resolve()
	if err != nil {
		return config.Run{}, config.Credentials{}, fmt.Errorf("invalid config: %w", err)
	}
	return run, creds, nil
}
