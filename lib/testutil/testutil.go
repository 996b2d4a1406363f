// Package testutil installs in-memory telemetry so tests can assert on the
// spans and metrics a component emits.
package testutil

import (
	"context"
	"sync"
	"testing"

	"farescan/lib/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type Telemetry struct {
	spans  *tracetest.InMemoryExporter
	reader *metric.ManualReader
}

var (
	setupOnce sync.Once
	installed Telemetry
)

// SetupTelemetry installs in-memory providers as the otel globals. Package
// level tracers and meters only delegate to the first providers installed, so
// the providers are shared by every test in the binary and reset on each
// call. Tests using it must not run in parallel.
func SetupTelemetry(t testing.TB) Telemetry {
	t.Helper()
	setupOnce.Do(func() {
		telemetry.InitSlog(true)

		spans := tracetest.NewInMemoryExporter()
		reader := metric.NewManualReader(
			metric.WithTemporalitySelector(func(metric.InstrumentKind) metricdata.Temporality {
				return metricdata.DeltaTemporality
			}),
		)
		otel.SetTracerProvider(trace.NewTracerProvider(trace.WithSyncer(spans)))
		otel.SetMeterProvider(metric.NewMeterProvider(metric.WithReader(reader)))

		installed = Telemetry{spans: spans, reader: reader}
	})

	installed.spans.Reset()
	// drain measurements left over by earlier tests
	installed.Collect(t)
	return installed
}

// SpanNames lists the names of the ended spans in the order they ended.
func (t Telemetry) SpanNames() []string {
	var names []string
	for _, span := range t.spans.GetSpans() {
		names = append(names, span.Name)
	}
	return names
}

// Collect reads the measurements recorded since the last collection.
func (t Telemetry) Collect(tb testing.TB) Snapshot {
	tb.Helper()
	var rm metricdata.ResourceMetrics
	err := t.reader.Collect(context.Background(), &rm)
	if err != nil {
		tb.Fatal(err)
	}
	snap := Snapshot{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			snap[m.Name] = m.Data
		}
	}
	return snap
}

// Snapshot maps instrument names to their collected data.
type Snapshot map[string]metricdata.Aggregation

// Int64Sum totals the data points of a counter, 0 when nothing was recorded.
func (s Snapshot) Int64Sum(name string) int64 {
	sum, ok := s[name].(metricdata.Sum[int64])
	if !ok {
		return 0
	}
	var total int64
	for _, point := range sum.DataPoints {
		total += point.Value
	}
	return total
}

// Float64Histogram returns how many values a histogram recorded and their sum.
func (s Snapshot) Float64Histogram(name string) (count uint64, total float64) {
	hist, ok := s[name].(metricdata.Histogram[float64])
	if !ok {
		return 0, 0
	}
	for _, point := range hist.DataPoints {
		count += point.Count
		total += point.Sum
	}
	return count, total
}
