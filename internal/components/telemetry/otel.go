package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type OtlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (c OtlpConnConfig) configured() bool {
	return c.GrpcEndpoint != "" || c.HttpEndpoint != ""
}

type OtlpConfig struct {
	Traces  OtlpConnConfig `json:"traces"`
	Metrics OtlpConnConfig `json:"metrics"`
}

type Config struct {
	Otlp OtlpConfig `json:"otlp"`
}

// Enabled is false when no exporter endpoint is configured, in which case
// the global otel providers stay no-ops.
func (c Config) Enabled() bool {
	return c.Otlp.Traces.configured() || c.Otlp.Metrics.configured()
}

// Telemetry holds the providers created by Setup, either may be nil.
type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	var errlist []error
	if t.TracerProvider != nil {
		errlist = append(errlist, t.TracerProvider.Shutdown(ctx))
	}
	if t.MeterProvider != nil {
		errlist = append(errlist, t.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errlist...)
}

func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return Telemetry{}, err
	}

	var tel Telemetry
	if config.Otlp.Traces.configured() {
		tel.TracerProvider, err = newTraceProvider(ctx, r, config.Otlp.Traces)
		if err != nil {
			return Telemetry{}, err
		}
		otel.SetTracerProvider(tel.TracerProvider)
	}
	if config.Otlp.Metrics.configured() {
		tel.MeterProvider, err = newMetricProvider(ctx, r, config.Otlp.Metrics)
		if err != nil {
			return Telemetry{}, err
		}
		otel.SetMeterProvider(tel.MeterProvider)
	}

	return tel, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, c OtlpConnConfig) (*trace.TracerProvider, error) {
	exporter, err := otlpTracerExport(ctx, c)
	if err != nil {
		return nil, err
	}
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func otlpTracerExport(ctx context.Context, c OtlpConnConfig) (trace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if c.GrpcEndpoint != "" {
		slog.Debug("tracer export initialized", "type", "grpc", "endpoint", c.GrpcEndpoint)
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(c.GrpcEndpoint),
			otlptracegrpc.WithHeaders(c.Headers),
		)
	}
	slog.Debug("tracer export initialized", "type", "http", "endpoint", c.HttpEndpoint)
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(c.HttpEndpoint),
		otlptracehttp.WithHeaders(c.Headers),
	)
}

func newMetricProvider(ctx context.Context, r *resource.Resource, c OtlpConnConfig) (*metric.MeterProvider, error) {
	exporter, err := otlpMetricExport(ctx, c)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(time.Second*5))),
		metric.WithResource(r),
	), nil
}

func otlpMetricExport(ctx context.Context, c OtlpConnConfig) (metric.Exporter, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if c.GrpcEndpoint != "" {
		slog.Debug("metric exporter initialized", "type", "grpc", "endpoint", c.GrpcEndpoint)
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(c.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(c.Headers),
		)
	}
	slog.Debug("metric exporter initialized", "type", "http", "endpoint", c.HttpEndpoint)
	return otlpmetrichttp.New(
		ctx,
		otlpmetrichttp.WithEndpointURL(c.HttpEndpoint),
		otlpmetrichttp.WithHeaders(c.Headers),
	)
}
