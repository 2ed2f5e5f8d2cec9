// Package telemetry exposes the OpenTelemetry instruments recorded by the
// compression engine.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Attribute keys attached to every measurement.
const (
	KeyMediaKind = attribute.Key("media.kind")
	KeyMethod    = attribute.Key("compression.method")
	KeyCategory  = attribute.Key("error.category")
)

// Metrics holds the engine's instruments.
type Metrics struct {
	RequestsTotal    metric.Int64Counter
	FailuresTotal    metric.Int64Counter
	BytesSaved       metric.Int64Counter
	CompressionRatio metric.Float64Histogram
	PSNR             metric.Float64Histogram
	Duration         metric.Float64Histogram
}

// NewMetrics creates and initializes all instruments from the given provider.
func NewMetrics(meterProvider metric.MeterProvider, serviceName string) (*Metrics, error) {
	meter := meterProvider.Meter(serviceName)

	requestsTotal, err := meter.Int64Counter(
		"compression_requests_total",
		metric.WithDescription("Total compression requests, including rejected ones"),
	)
	if err != nil {
		return nil, err
	}

	failuresTotal, err := meter.Int64Counter(
		"compression_failures_total",
		metric.WithDescription("Total failed compression requests"),
	)
	if err != nil {
		return nil, err
	}

	bytesSaved, err := meter.Int64Counter(
		"compression_bytes_saved",
		metric.WithDescription("Bytes saved between the stored original and the artifact"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	ratio, err := meter.Float64Histogram(
		"compression_ratio",
		metric.WithDescription("Compression ratio (original/compressed)"),
	)
	if err != nil {
		return nil, err
	}

	psnr, err := meter.Float64Histogram(
		"compression_psnr",
		metric.WithDescription("Peak signal to noise ratio of image results"),
		metric.WithUnit("dB"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"compression_duration",
		metric.WithDescription("Processing time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestsTotal:    requestsTotal,
		FailuresTotal:    failuresTotal,
		BytesSaved:       bytesSaved,
		CompressionRatio: ratio,
		PSNR:             psnr,
		Duration:         duration,
	}, nil
}

// Observation is a single finished request.
type Observation struct {
	MediaKind       string
	Method          string
	Ratio           float64
	PSNR            float64
	Seconds         float64
	BytesSaved      int64
	MeasuredQuality bool
}

// RecordSuccess records a finished request.
func (m *Metrics) RecordSuccess(ctx context.Context, o Observation) {
	attrs := metric.WithAttributes(KeyMediaKind.String(o.MediaKind), KeyMethod.String(o.Method))

	m.RequestsTotal.Add(ctx, 1, attrs)
	m.CompressionRatio.Record(ctx, o.Ratio, attrs)
	m.Duration.Record(ctx, o.Seconds, attrs)
	if o.MeasuredQuality {
		m.PSNR.Record(ctx, o.PSNR, attrs)
	}
	if o.BytesSaved > 0 {
		m.BytesSaved.Add(ctx, o.BytesSaved, attrs)
	}
}

// RecordFailure records a failed request with its error classification.
func (m *Metrics) RecordFailure(ctx context.Context, mediaKind, method, category string) {
	m.RequestsTotal.Add(ctx, 1, metric.WithAttributes(KeyMediaKind.String(mediaKind), KeyMethod.String(method)))
	m.FailuresTotal.Add(ctx, 1, metric.WithAttributes(
		KeyMediaKind.String(mediaKind),
		KeyMethod.String(method),
		KeyCategory.String(category),
	))
}

// InitMetricsProvider initializes the OpenTelemetry metrics provider.
// An empty endpoint yields an SDK provider without exporters.
func InitMetricsProvider(ctx context.Context, endpoint string, serviceName string) (metric.MeterProvider, func() error, error) {
	if endpoint == "" {
		mp := sdkmetric.NewMeterProvider()
		return mp, func() error { return mp.Shutdown(context.Background()) }, nil
	}

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(endpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	)

	otel.SetMeterProvider(mp)

	return mp, func() error {
		return mp.Shutdown(context.Background())
	}, nil
}
