package observability

import (
	"context"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	batchRecords   otelmetric.Int64Counter
	batchDuration  otelmetric.Float64Histogram
}

// Option customises New.
type Option func(*settings)

type settings struct {
	registerer promclient.Registerer
	spans      sdktrace.SpanProcessor
}

// WithRegisterer registers the Prometheus exporter somewhere other than the
// default registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(s *settings) { s.registerer = reg }
}

// WithSpanProcessor attaches a span processor, e.g. an exporter or a test
// recorder.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(s *settings) { s.spans = sp }
}

func New(serviceName string, opts ...Option) *Observability {
	s := settings{registerer: promclient.DefaultRegisterer}
	for _, opt := range opts {
		opt(&s)
	}

	traceOpts := []sdktrace.TracerProviderOption{}
	if s.spans != nil {
		traceOpts = append(traceOpts, sdktrace.WithSpanProcessor(s.spans))
	}
	tp := sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(tp)

	o := &Observability{
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
	}

	exporter, err := prometheus.New(prometheus.WithRegisterer(s.registerer))
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	o.meterProvider = provider
	o.meter = meter

	o.jobCounter, _ = meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	o.jobDuration, _ = meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	o.batchRecords, _ = meter.Int64Counter(
		"introductions.batch.records",
		otelmetric.WithDescription("Demand records processed by introduction batches"),
	)
	o.batchDuration, _ = meter.Float64Histogram(
		"introductions.batch.duration",
		otelmetric.WithDescription("Introduction batch duration"),
		otelmetric.WithUnit("ms"),
	)

	return o
}

// StartSpan starts a span on the service tracer. The returned span must be
// ended by the caller.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordJobProcessed(ctx context.Context, status string) {
	if o != nil && o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, duration time.Duration, status string) {
	if o != nil && o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

// RecordBatch records the outcome counts and duration of one introduction
// batch.
func (o *Observability) RecordBatch(ctx context.Context, composed, dropped int, duration time.Duration) {
	if o == nil {
		return
	}
	if o.batchRecords != nil {
		o.batchRecords.Add(ctx, int64(composed), otelmetric.WithAttributes(attribute.String("outcome", "composed")))
		o.batchRecords.Add(ctx, int64(dropped), otelmetric.WithAttributes(attribute.String("outcome", "dropped")))
	}
	if o.batchDuration != nil {
		o.batchDuration.Record(ctx, float64(duration.Milliseconds()))
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
