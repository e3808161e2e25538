package observability_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/vytor/wordflash/internal/observability"
)

func TestInitOTel_Disabled(t *testing.T) {
	shutdown, err := observability.InitOTel(context.Background(), observability.OtelConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitOTel_Stdout(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	shutdown, err := observability.InitOTel(context.Background(), observability.OtelConfig{
		Enabled:  true,
		Exporter: observability.ExporterStdout,
		Writer:   &buf,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "lookup")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name":"lookup"`)
	assert.Contains(t, buf.String(), "wordflash")
}

func TestInitOTel_UnknownExporter(t *testing.T) {
	_, err := observability.InitOTel(context.Background(), observability.OtelConfig{Enabled: true, Exporter: "zipkin"})
	assert.ErrorContains(t, err, "unknown exporter")
}
