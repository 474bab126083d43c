package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 登录结果标签
const (
	OutcomeSuccess      = "success"
	OutcomeUnauthorized = "unauthorized"
	OutcomeBadRequest   = "bad_request"
	OutcomeServerError  = "server_error"
)

// LoginMetrics 追踪登录链路的核心指标。
type LoginMetrics struct {
	Duration *prometheus.HistogramVec
	Attempts *prometheus.CounterVec
}

var (
	// DefaultLoginMetrics 全局共享实例。
	DefaultLoginMetrics *LoginMetrics

	loginDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.2, 0.3, 0.5, 1, 2}
)

func init() {
	DefaultLoginMetrics = NewLoginMetrics(Namespace)
}

// NewLoginMetricsWithRegistry 创建 LoginMetrics,允许 tests 注入自定义 registry。
func NewLoginMetricsWithRegistry(namespace string, reg prometheus.Registerer) *LoginMetrics {
	if reg == nil {
		reg = GetRegisterer()
	}
	factory := promauto.With(reg)

	return &LoginMetrics{
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "login_duration_seconds",
				Help:      "Latency histogram of login requests by outcome",
				Buckets:   loginDurationBuckets,
			},
			[]string{"service", "outcome"},
		),

		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Count of login attempts by outcome",
			},
			[]string{"service", "outcome"},
		),
	}
}

// NewLoginMetrics 创建默认 registry 的 LoginMetrics。
func NewLoginMetrics(namespace string) *LoginMetrics {
	return NewLoginMetricsWithRegistry(namespace, GetRegisterer())
}

// OutcomeForStatus 把登录响应的状态码归类为 outcome 标签
func OutcomeForStatus(statusCode int) string {
	switch {
	case statusCode >= 500:
		return OutcomeServerError
	case statusCode == 401:
		return OutcomeUnauthorized
	case statusCode >= 400:
		return OutcomeBadRequest
	default:
		return OutcomeSuccess
	}
}

// ObserveLogin 记录一次登录尝试及其耗时。
func (m *LoginMetrics) ObserveLogin(service, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	service = normalizeServiceName(service)
	if outcome == "" {
		outcome = OutcomeSuccess
	}
	m.Attempts.WithLabelValues(service, outcome).Inc()
	m.Duration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}
