package relayprobe

import (
	"fmt"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nostrkit/go-relayprobe/internal/core/metrics"
)

// 默认时间参数
const (
	// DefaultConnectTimeout 连接建立超时
	DefaultConnectTimeout = 5 * time.Second

	// DefaultPublishTimeout 发布确认等待上限
	DefaultPublishTimeout = 10 * time.Second

	// DefaultProbeReadWait 健康探测中等待入站帧的时长
	DefaultProbeReadWait = time.Second

	// DefaultPollInterval 监控器日志轮询间隔
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultStressHoldMax 压测连接保持时长上限（均匀分布的上界）
	DefaultStressHoldMax = time.Second
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	connectTimeout time.Duration
	publishTimeout time.Duration
	probeReadWait  time.Duration
	pollInterval   time.Duration

	stressHoldMax     time.Duration
	stressConcurrency int // 0 = 不限制

	clock      clock.Clock
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// newOptions 构建带默认值的选项
func newOptions(opts ...Option) (*options, error) {
	o := &options{
		connectTimeout: DefaultConnectTimeout,
		publishTimeout: DefaultPublishTimeout,
		probeReadWait:  DefaultProbeReadWait,
		pollInterval:   DefaultPollInterval,
		stressHoldMax:  DefaultStressHoldMax,
		clock:          clock.New(),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// WithConnectTimeout 设置连接建立超时
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("connect timeout must be positive, got %v", d)
		}
		o.connectTimeout = d
		return nil
	}
}

// WithPublishTimeout 设置发布确认等待上限
func WithPublishTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("publish timeout must be positive, got %v", d)
		}
		o.publishTimeout = d
		return nil
	}
}

// WithProbeReadWait 设置健康探测中等待入站帧的时长
func WithProbeReadWait(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("probe read wait must be positive, got %v", d)
		}
		o.probeReadWait = d
		return nil
	}
}

// WithPollInterval 设置监控器日志轮询间隔
func WithPollInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("poll interval must be positive, got %v", d)
		}
		o.pollInterval = d
		return nil
	}
}

// WithStressHoldMax 设置压测连接保持时长上限
func WithStressHoldMax(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("stress hold max must be positive, got %v", d)
		}
		o.stressHoldMax = d
		return nil
	}
}

// WithStressConcurrency 限制压测同时在途的连接尝试数
//
// 0 表示不限制（默认），保持所有尝试同时发起的语义。
func WithStressConcurrency(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("stress concurrency must be non-negative, got %d", n)
		}
		o.stressConcurrency = n
		return nil
	}
}

// WithClock 替换时间源（测试用）
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		if c == nil {
			return fmt.Errorf("clock must not be nil")
		}
		o.clock = c
		return nil
	}
}

// WithHTTPClient 设置元数据获取使用的 HTTP 客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		o.httpClient = hc
		return nil
	}
}

// WithMetricsRegisterer 启用指标并注册到给定 Registerer
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.metrics = metrics.New(reg)
		return nil
	}
}
