package telemetry

import (
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestTelemetry exports spans and metrics to in-memory readers.
type TestTelemetry struct {
	Telemetry
	SpanExporter *tracetest.InMemoryExporter
	MetricReader *sdkmetric.ManualReader
}

func ForTest() *TestTelemetry {
	spanExporter := tracetest.NewInMemoryExporter()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanExporter))

	metricReader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))

	return &TestTelemetry{
		Telemetry:    New(tracerProvider, meterProvider),
		SpanExporter: spanExporter,
		MetricReader: metricReader,
	}
}
