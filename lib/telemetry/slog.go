package telemetry

import (
	"log/slog"
	"os"
	"strings"
)

const DebugEnv = "FARESCAN_DEBUG"

// DebugFromEnv reports whether debug output was requested through FARESCAN_DEBUG.
func DebugFromEnv() bool {
	value := strings.TrimSpace(os.Getenv(DebugEnv))
	return value != "" && value != "0" && !strings.EqualFold(value, "false")
}

// InitSlog installs a text handler on stderr as the default slog logger.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
