package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"farescan/lib/configutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

const ConfigName = "telemetry.json5"

type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// Shutdown flushes and stops the providers, it is safe to call on a zero Telemetry.
func (t Telemetry) Shutdown(ctx context.Context) error {
	var errlist []error
	if t.TracerProvider != nil {
		err := t.TracerProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	if t.MeterProvider != nil {
		err := t.MeterProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

// SetupFromEnv searches up the filesystem from the cwd to find telemetry.json5
// and uses it to export traces and metrics. When there is no such file the
// global no-op providers are left in place and a zero Telemetry is returned.
func SetupFromEnv(ctx context.Context, serviceName string, run ...attribute.KeyValue) (Telemetry, error) {
	cfg, err := configutil.ReadRecursively[Config](ConfigName)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no telemetry config found, telemetry disabled")
		return Telemetry{}, nil
	}
	if err != nil {
		return Telemetry{}, err
	}
	return Setup(ctx, serviceName, cfg, run...)
}

// Setup installs the providers configured by cfg as the otel globals. A
// signal without an endpoint keeps the global no-op provider. `run` is added
// to the resource, it identifies the invocation.
func Setup(ctx context.Context, serviceName string, cfg Config, run ...attribute.KeyValue) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName, cfg, run)
	if err != nil {
		return Telemetry{}, err
	}

	tracerProvider, err := newTraceProvider(ctx, r, cfg.Otlp.Traces)
	if err != nil {
		return Telemetry{}, err
	}
	meterProvider, err := newMetricProvider(ctx, r, cfg)
	if err != nil {
		if tracerProvider != nil {
			tracerProvider.Shutdown(ctx)
		}
		return Telemetry{}, err
	}

	if tracerProvider != nil {
		otel.SetTracerProvider(tracerProvider)
	}
	if meterProvider != nil {
		otel.SetMeterProvider(meterProvider)
	}
	return Telemetry{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}, nil
}
