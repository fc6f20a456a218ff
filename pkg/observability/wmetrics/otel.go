package wmetrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultInstrumentationName = "github.com/omeyang/wkit/wmetrics"

	metricWrites        = "wkit.writer.writes"
	metricRetries       = "wkit.writer.retries"
	metricRotations     = "wkit.writer.rotations"
	metricDrops         = "wkit.writer.drops"
	metricWriteDuration = "wkit.writer.write_duration"
)

type otelConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// Option 定义 OTel Recorder 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// NewOTelRecorder 创建基于 OpenTelemetry 的 Recorder。
//
// 未显式指定 MeterProvider 时使用全局 Provider。
func NewOTelRecorder(opts ...Option) (Recorder, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	writes, err := meter.Int64Counter(
		metricWrites,
		metric.WithDescription("total write attempts by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("wmetrics: create writes counter failed: %w", err)
	}

	retries, err := meter.Int64Counter(
		metricRetries,
		metric.WithDescription("total write retries"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("wmetrics: create retries counter failed: %w", err)
	}

	rotations, err := meter.Int64Counter(
		metricRotations,
		metric.WithDescription("total file rotations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("wmetrics: create rotations counter failed: %w", err)
	}

	drops, err := meter.Int64Counter(
		metricDrops,
		metric.WithDescription("total writes abandoned after retry exhaustion"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("wmetrics: create drops counter failed: %w", err)
	}

	duration, err := meter.Float64Histogram(
		metricWriteDuration,
		metric.WithDescription("single file write duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("wmetrics: create duration histogram failed: %w", err)
	}

	return &otelRecorder{
		writes:    writes,
		retries:   retries,
		rotations: rotations,
		drops:     drops,
		duration:  duration,
	}, nil
}

type otelRecorder struct {
	writes    metric.Int64Counter
	retries   metric.Int64Counter
	rotations metric.Int64Counter
	drops     metric.Int64Counter
	duration  metric.Float64Histogram
}

func (r *otelRecorder) WriteCompleted(ctx context.Context, outcome Outcome, elapsed time.Duration) {
	if ctx == nil {
		ctx = context.Background()
	}
	attrs := metric.WithAttributes(attribute.String("outcome", string(outcome)))
	r.writes.Add(ctx, 1, attrs)
	r.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func (r *otelRecorder) RetryAttempted(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	r.retries.Add(ctx, 1)
}

func (r *otelRecorder) RotationPerformed(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	r.rotations.Add(ctx, 1)
}

func (r *otelRecorder) WriteDropped(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	r.drops.Add(ctx, 1)
}
