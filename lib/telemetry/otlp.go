package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const exporterTimeout = time.Second * 3

type transport int

const (
	transportNone transport = iota
	transportGrpc
	transportHttp
)

func (t transport) String() string {
	switch t {
	case transportGrpc:
		return "grpc"
	case transportHttp:
		return "http"
	default:
		return "none"
	}
}

// grpc wins when both endpoints are set.
func (c OtlpConnConfig) transport() transport {
	switch {
	case c.GrpcEndpoint != "":
		return transportGrpc
	case c.HttpEndpoint != "":
		return transportHttp
	default:
		return transportNone
	}
}

func (c OtlpConnConfig) endpoint() string {
	if c.transport() == transportGrpc {
		return c.GrpcEndpoint
	}
	return c.HttpEndpoint
}

func newResource(serviceName string) (*resource.Resource, error) {
	version := "devel"
	info, ok := debug.ReadBuildInfo()
	if ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
}

func sampler(ratio float64) trace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return trace.AlwaysSample()
	}
	return trace.ParentBased(trace.TraceIDRatioBased(ratio))
}

func newTraceProvider(ctx context.Context, r *resource.Resource, config Config) (*trace.TracerProvider, error) {
	exporter, err := newSpanExporter(ctx, config.Otlp.Traces)
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
		trace.WithSampler(sampler(config.SampleRatio)),
	), nil
}

func newSpanExporter(ctx context.Context, c OtlpConnConfig) (trace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	slog.Debug(
		"span exporter initialized",
		"type", c.transport().String(),
		"endpoint", c.endpoint(),
		"headers", len(c.Headers) > 0,
	)
	switch c.transport() {
	case transportGrpc:
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(c.GrpcEndpoint),
			otlptracegrpc.WithHeaders(c.Headers),
		)
	case transportHttp:
		return otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(c.HttpEndpoint),
			otlptracehttp.WithHeaders(c.Headers),
		)
	}
	return nil, fmt.Errorf("neither grpc_endpoint nor http_endpoint is set")
}

func newMetricProvider(ctx context.Context, r *resource.Resource, config Config) (*metric.MeterProvider, error) {
	exporter, err := newMetricExporter(ctx, config.Otlp.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}

	interval := time.Duration(config.MetricInterval) * time.Second
	if interval <= 0 {
		interval = time.Second * 5
	}
	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(interval))),
		metric.WithResource(r),
	), nil
}

func newMetricExporter(ctx context.Context, c OtlpConnConfig) (metric.Exporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	slog.Debug(
		"metric exporter initialized",
		"type", c.transport().String(),
		"endpoint", c.endpoint(),
		"headers", len(c.Headers) > 0,
	)
	switch c.transport() {
	case transportGrpc:
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(c.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(c.Headers),
		)
	case transportHttp:
		return otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpointURL(c.HttpEndpoint),
			otlpmetrichttp.WithHeaders(c.Headers),
		)
	}
	return nil, fmt.Errorf("neither grpc_endpoint nor http_endpoint is set")
}
