// Package metrics 提供探测引擎的 Prometheus 指标
//
// 引擎各组件在操作完成时记录计数与延迟分布；
// 指标的暴露方式（HTTP handler 等）由调用方决定。
// 未注册指标时所有记录操作都是安全的空操作。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 指标标签取值
const (
	OutcomeOK       = "ok"
	OutcomeFail     = "fail"
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

// Metrics 探测引擎指标集
type Metrics struct {
	probesTotal    *prometheus.CounterVec
	publishesTotal *prometheus.CounterVec
	stressConnects *prometheus.CounterVec
	connectLatency prometheus.Histogram
	ackLatency     prometheus.Histogram
}

// New 创建指标集并注册到 reg
//
// reg 为 nil 时只创建不注册，指标仍可安全使用。
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		probesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relayprobe",
			Name:      "probes_total",
			Help:      "Health probe attempts by outcome.",
		}, []string{"outcome"}),
		publishesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relayprobe",
			Name:      "publishes_total",
			Help:      "Publish attempts by outcome.",
		}, []string{"outcome"}),
		stressConnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relayprobe",
			Name:      "stress_connects_total",
			Help:      "Stress test connection attempts by outcome.",
		}, []string{"outcome"}),
		connectLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "relayprobe",
			Name:      "connect_latency_seconds",
			Help:      "Connection establishment latency.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		ackLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "relayprobe",
			Name:      "publish_ack_latency_seconds",
			Help:      "Latency from publish frame to acknowledgement.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.probesTotal,
			m.publishesTotal,
			m.stressConnects,
			m.connectLatency,
			m.ackLatency,
		)
	}

	return m
}

// ObserveProbe 记录一次健康探测
func (m *Metrics) ObserveProbe(healthy bool, latency time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeFail
	if healthy {
		outcome = OutcomeOK
		m.connectLatency.Observe(latency.Seconds())
	}
	m.probesTotal.WithLabelValues(outcome).Inc()
}

// ObservePublish 记录一次发布
func (m *Metrics) ObservePublish(outcome string, latency time.Duration) {
	if m == nil {
		return
	}
	m.publishesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeAccepted || outcome == OutcomeRejected {
		m.ackLatency.Observe(latency.Seconds())
	}
}

// ObserveStressConnect 记录一次压测连接尝试
func (m *Metrics) ObserveStressConnect(success bool, latency time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeFail
	if success {
		outcome = OutcomeOK
		m.connectLatency.Observe(latency.Seconds())
	}
	m.stressConnects.WithLabelValues(outcome).Inc()
}
