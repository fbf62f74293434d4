package xmetrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xlogkit/xmetrics"

	metricEmits  = "xlogkit.sink.emits"
	metricErrors = "xlogkit.sink.errors"
	metricCycles = "xlogkit.rotate.cycles"
	metricSwept  = "xlogkit.rotate.swept"
)

type otelConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// Option OTel Recorder 配置选项
type Option func(*otelConfig)

// WithInstrumentationName 设置 instrumentation 名称
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认使用 otel.GetMeterProvider()
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

type otelRecorder struct {
	emits  metric.Int64Counter
	errors metric.Int64Counter
	cycles metric.Int64Counter
	swept  metric.Int64Counter
}

// NewOTelRecorder 创建基于 OpenTelemetry 的 Recorder
func NewOTelRecorder(opts ...Option) (Recorder, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	r := &otelRecorder{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&r.emits, metricEmits, "log emit calls"},
		{&r.errors, metricErrors, "swallowed log failures"},
		{&r.cycles, metricCycles, "rotation cycles"},
		{&r.swept, metricSwept, "expired backups removed"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit("1"))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, c.name, err)
		}
		*c.dst = counter
	}
	return r, nil
}

func (r *otelRecorder) Emit(ctx context.Context, level string) {
	r.emits.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrLevel, level)))
}

func (r *otelRecorder) Error(ctx context.Context, op string) {
	r.errors.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOp, op)))
}

func (r *otelRecorder) Rotated(ctx context.Context) {
	r.cycles.Add(ctx, 1)
}

func (r *otelRecorder) Swept(ctx context.Context, n int) {
	if n > 0 {
		r.swept.Add(ctx, int64(n))
	}
}
