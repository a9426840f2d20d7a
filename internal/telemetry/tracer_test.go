package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestInitTracer_Disabled(t *testing.T) {
	otel.SetTracerProvider(noop.NewTracerProvider())

	shutdown, err := InitTracer(Config{ServiceName: "test"}, nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, isNoop := otel.GetTracerProvider().(noop.TracerProvider)
	assert.True(t, isNoop)
}

func TestInitTracer_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracer(Config{
		ServiceName: "recipe-buddy-test",
		Enabled:     true,
		Exporter:    ExporterStdout,
		SampleRatio: 1,
		Output:      &buf,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	_, span := otel.Tracer("test").Start(context.Background(), "lookup")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name":"lookup"`)
	assert.Contains(t, buf.String(), "recipe-buddy-test")
}

func TestInitTracer_UnknownExporter(t *testing.T) {
	_, err := InitTracer(Config{Enabled: true, Exporter: "zipkin"}, nil)
	assert.Error(t, err)
}
