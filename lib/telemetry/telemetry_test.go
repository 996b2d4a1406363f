package telemetry

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestShutdownZero(t *testing.T) {
	require.NoError(t, Telemetry{}.Shutdown(context.Background()))
}

func TestSetupFromEnvWithoutConfig(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})

	tel, err := SetupFromEnv(context.Background(), "test:telemetry")
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
}

func TestDebugFromEnv(t *testing.T) {
	cases := []struct {
		value  string
		expect bool
	}{
		{value: "", expect: false},
		{value: "0", expect: false},
		{value: "false", expect: false},
		{value: "1", expect: true},
		{value: "yes", expect: true},
	}
	for _, test := range cases {
		t.Setenv(DebugEnv, test.value)
		require.Equal(t, test.expect, DebugFromEnv(), test.value)
	}
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestNewResource(t *testing.T) {
	r, err := newResource(
		"farescan",
		Config{Attributes: map[string]string{"host": "laptop"}},
		[]attribute.KeyValue{attribute.String("farescan.command", "poll")},
	)
	require.NoError(t, err)

	value, ok := r.Set().Value("service.name")
	require.True(t, ok)
	require.Equal(t, "farescan", value.AsString())

	value, ok = r.Set().Value("host")
	require.True(t, ok)
	require.Equal(t, "laptop", value.AsString())

	value, ok = r.Set().Value("farescan.command")
	require.True(t, ok)
	require.Equal(t, "poll", value.AsString())
}

func TestMetricInterval(t *testing.T) {
	require.Equal(t, defaultMetricInterval, Config{}.metricInterval())
	require.Equal(t, 30*time.Second, Config{MetricIntervalSeconds: 30}.metricInterval())
}
