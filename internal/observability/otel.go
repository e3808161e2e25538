// Package observability installs the OpenTelemetry tracer provider.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vytor/wordflash/internal/logger"
)

const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

type OtelConfig struct {
	Enabled     bool
	Exporter    string
	Endpoint    string
	ServiceName string
	Version     string
	// Writer receives stdout spans; nil means os.Stdout.
	Writer io.Writer
}

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// InitOTel sets the global tracer provider. When tracing is disabled the
// global no-op provider stays in place and the returned Shutdown does nothing.
func InitOTel(ctx context.Context, cfg OtelConfig) (Shutdown, error) {
	log := logger.FromContext(ctx).WithPrefix("otel")
	if !cfg.Enabled {
		log.Debug("tracing disabled")
		return noop, nil
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "wordflash"
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", strings.TrimSpace(cfg.Version)),
	))
	if err != nil {
		log.Warn("otel resource init failed (continuing): %v", err)
	}

	exporter, err := buildTraceExporter(ctx, cfg)
	if err != nil {
		return noop, fmt.Errorf("otel exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Info("tracing initialized: service=%s exporter=%s", serviceName, cfg.Exporter)
	return tp.Shutdown, nil
}

func buildTraceExporter(ctx context.Context, cfg OtelConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterOTLP:
		var opts []otlptracehttp.Option
		if ep := strings.TrimSpace(cfg.Endpoint); ep != "" {
			if strings.Contains(ep, "://") {
				opts = append(opts, otlptracehttp.WithEndpointURL(ep))
			} else {
				opts = append(opts, otlptracehttp.WithEndpoint(ep))
			}
		}
		return otlptracehttp.New(ctx, opts...)
	case ExporterStdout, "":
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		return stdouttrace.New(stdouttrace.WithWriter(w))
	default:
		return nil, fmt.Errorf("unknown exporter %q", cfg.Exporter)
	}
}
