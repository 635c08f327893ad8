// Package telemetry wraps the OpenTelemetry tracer and meter.
package telemetry

import (
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type Telemetry interface {
	Tracer() Tracer
	Meter() metric.Meter
}

type telemetry struct {
	tracer Tracer
	meter  metric.Meter
}

func New(tp trace.TracerProvider, mp metric.MeterProvider) Telemetry {
	return &telemetry{
		tracer: &tracer{tracer: tp.Tracer("github.com/keboola/go-orchestrator")},
		meter:  mp.Meter("github.com/keboola/go-orchestrator"),
	}
}

// NewNop provides a no-operation implementation, spans and metrics are dropped.
func NewNop() Telemetry {
	return New(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
}

func (t *telemetry) Tracer() Tracer {
	return t.tracer
}

func (t *telemetry) Meter() metric.Meter {
	return t.meter
}
