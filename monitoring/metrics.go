// Package monitoring 提供Prometheus指标
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome 表单提交结果类型
type Outcome string

const (
	OutcomeMalformed  Outcome = "malformed"
	OutcomeOutOfRange Outcome = "out_of_range"
	OutcomeFailed     Outcome = "prediction_failed"
	OutcomePredicted  Outcome = "predicted"
)

// Metrics 服务指标，每个实例使用独立的注册表
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	violations  *prometheus.CounterVec
	predictions *prometheus.CounterVec
	latency     prometheus.Histogram
}

// NewMetrics 创建并注册全部指标
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airquality",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome.",
		}, []string{"outcome"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airquality",
			Name:      "bound_violations_total",
			Help:      "Rejected readings by feature.",
		}, []string{"feature"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airquality",
			Name:      "predictions_total",
			Help:      "Successful predictions by class label.",
		}, []string{"label"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "airquality",
			Name:      "prediction_duration_seconds",
			Help:      "Time spent in the classifier.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}

	m.registry.MustRegister(
		m.submissions,
		m.violations,
		m.predictions,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSubmission 记录一次提交
func (m *Metrics) ObserveSubmission(outcome Outcome) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(outcome)).Inc()
}

// ObserveViolation 记录越界的特征
func (m *Metrics) ObserveViolation(feature string) {
	if m == nil {
		return
	}
	m.violations.WithLabelValues(feature).Inc()
}

// ObservePrediction 记录预测标签与耗时
func (m *Metrics) ObservePrediction(label string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(label).Inc()
	m.latency.Observe(elapsed.Seconds())
}

// ObserveLatency 只记录耗时（预测失败时）
func (m *Metrics) ObserveLatency(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.latency.Observe(elapsed.Seconds())
}

// Handler 暴露/metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
