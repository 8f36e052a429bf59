package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tejusbharadwaj/tseries/internal/pipeline"
	"github.com/tejusbharadwaj/tseries/internal/series"
)

// StepMetrics are the collectors the metrics interceptor records into.
type StepMetrics struct {
	Steps   *prometheus.CounterVec
	Latency *prometheus.HistogramVec
	Events  *prometheus.GaugeVec
}

// NewStepMetrics creates the step collectors under namespace and registers
// them with reg.
func NewStepMetrics(namespace string, reg prometheus.Registerer) (*StepMetrics, error) {
	m := &StepMetrics{
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_steps_total",
			Help:      "Pipeline steps run, by operation and outcome.",
		}, []string{"op", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_step_duration_seconds",
			Help:      "Time spent in each pipeline step.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"op"}),
		Events: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_step_events",
			Help:      "Events produced by the last run of each step.",
		}, []string{"op"}),
	}
	for _, c := range []prometheus.Collector{m.Steps, m.Latency, m.Events} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func NewMetricsInterceptor(m *StepMetrics) pipeline.Interceptor {
	return func(ctx context.Context, ts *series.TimeSeries, info *pipeline.StepInfo, next pipeline.Handler) (*series.TimeSeries, error) {
		start := time.Now()

		out, err := next(ctx, ts)

		// Record metrics
		duration := time.Since(start).Seconds()
		status := "ok"
		if err != nil {
			status = "error"
		}

		m.Steps.WithLabelValues(info.Op, status).Inc()
		m.Latency.WithLabelValues(info.Op).Observe(duration)
		if out != nil {
			m.Events.WithLabelValues(info.Op).Set(float64(out.Size()))
		}

		return out, err
	}
}
