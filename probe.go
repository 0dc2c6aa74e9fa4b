package relayprobe

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nostrkit/go-relayprobe/internal/core/session"
	"github.com/nostrkit/go-relayprobe/internal/util/logger"
	"github.com/nostrkit/go-relayprobe/pkg/types"
)

var log = logger.Logger("relayprobe")

// ════════════════════════════════════════════════════════════════════════════
//                              健康探测
// ════════════════════════════════════════════════════════════════════════════

// Prober 端点健康探测器
//
// 每次探测创建并独占一个会话，返回前必定释放。
type Prober struct {
	opts *options
}

// NewProber 创建健康探测器
func NewProber(opts ...Option) (*Prober, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Prober{opts: o}, nil
}

// Check 对端点执行一次健康探测
//
// 连接在超时内建立成功即判定健康，并记录建立耗时为延迟；
// 随后发送一个带唯一关联 ID 的最小订阅帧（发送成功即视为具备
// 读能力），等待至多 DefaultProbeReadWait 后发送取消帧。
// 写能力从连接成功直接推定，见 HealthCheckResult.SupportsWrite。
//
// 任何失败都记录在结果中，本操作不向外传播错误。
func (p *Prober) Check(ctx context.Context, endpoint string) HealthCheckResult {
	result := HealthCheckResult{
		Endpoint:  endpoint,
		CheckedAt: time.Now(),
	}
	start := time.Now()

	s, err := session.Open(ctx, endpoint, p.opts.connectTimeout)
	if err != nil {
		result.Error = err.Error()
		result.ResponseTime = time.Since(start)
		p.opts.metrics.ObserveProbe(false, 0)
		log.Debug("health check failed", "endpoint", endpoint, "err", err)
		return result
	}
	defer s.Close()

	result.Latency = time.Since(start)
	result.Healthy = true
	result.SupportsWrite = true

	// 读测试订阅
	subID := uuid.NewString()
	frame, err := types.ReqFrame(subID, types.Filter{Limit: 1})
	if err == nil && s.Send(frame) == nil {
		result.SupportsRead = true

		// 等待任意入站帧，但不以收到为读能力的前提
		gotFrame := make(chan struct{}, 1)
		s.OnMessage(func([]byte) {
			select {
			case gotFrame <- struct{}{}:
			default:
			}
		})

		select {
		case <-gotFrame:
		case <-time.After(p.opts.probeReadWait):
		case <-ctx.Done():
		}

		_ = s.Send(types.CloseFrame(subID))
	}

	result.ResponseTime = time.Since(start)
	p.opts.metrics.ObserveProbe(true, result.Latency)

	log.Debug("health check done",
		"endpoint", endpoint,
		"latency", result.Latency,
		"read", result.SupportsRead)

	return result
}

// Ping 测量端点的连接建立延迟
//
// 打开会话后立即关闭，返回耗时；超时内未建立连接返回错误。
func (p *Prober) Ping(ctx context.Context, endpoint string) (time.Duration, error) {
	start := time.Now()

	s, err := session.Open(ctx, endpoint, p.opts.connectTimeout)
	if err != nil {
		return 0, err
	}
	s.Close()

	return time.Since(start), nil
}
