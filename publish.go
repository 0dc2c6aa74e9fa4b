package relayprobe

import (
	"context"
	"sync"
	"time"

	"github.com/nostrkit/go-relayprobe/internal/core/metrics"
	"github.com/nostrkit/go-relayprobe/internal/core/session"
	"github.com/nostrkit/go-relayprobe/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              事件发布
// ════════════════════════════════════════════════════════════════════════════

// Publisher 事件发布协调器
//
// 向端点提交已签名事件，并将异步到达的确认帧按事件 ID 关联。
// 每次发布创建并独占一个会话，返回前必定释放。
type Publisher struct {
	opts *options
}

// NewPublisher 创建发布协调器
func NewPublisher(opts ...Option) (*Publisher, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Publisher{opts: o}, nil
}

// Publish 向端点发布一个已签名事件
//
// 第一个标识匹配的确认帧决定结果；与本次发布无关的帧
// （其他订阅的事件、通知、无法解析的内容）一律静默忽略。
// 时限内无匹配确认则返回 success=false 的超时结果。
// 无论哪个分支先到，会话都在返回前关闭。
func (p *Publisher) Publish(ctx context.Context, endpoint string, ev *SignedEvent) PublishResult {
	result := PublishResult{
		Endpoint:    endpoint,
		PublishedAt: time.Now(),
	}
	if ev == nil || ev.ID == "" {
		result.Message = ErrInvalidEvent.Error()
		p.opts.metrics.ObservePublish(metrics.OutcomeError, 0)
		return result
	}
	result.EventID = ev.ID

	start := time.Now()

	s, err := session.Open(ctx, endpoint, p.opts.connectTimeout)
	if err != nil {
		result.Message = err.Error()
		result.Latency = time.Since(start)
		p.opts.metrics.ObservePublish(metrics.OutcomeError, 0)
		return result
	}
	defer s.Close()

	// 确认帧关联：首个匹配帧胜出，缓冲保证写入方不阻塞
	ackCh := make(chan types.OKFrame, 1)
	s.OnMessage(func(data []byte) {
		ack, ok := types.ParseOK(data)
		if !ok || ack.EventID != ev.ID {
			return
		}
		select {
		case ackCh <- ack:
		default:
		}
	})

	frame, err := types.EventFrame(ev)
	if err != nil {
		result.Message = err.Error()
		result.Latency = time.Since(start)
		p.opts.metrics.ObservePublish(metrics.OutcomeError, 0)
		return result
	}
	if err := s.Send(frame); err != nil {
		result.Message = err.Error()
		result.Latency = time.Since(start)
		p.opts.metrics.ObservePublish(metrics.OutcomeError, 0)
		return result
	}

	select {
	case ack := <-ackCh:
		result.Success = ack.Accepted
		result.Message = ack.Message
		result.Latency = time.Since(start)
		if ack.Accepted {
			p.opts.metrics.ObservePublish(metrics.OutcomeAccepted, result.Latency)
		} else {
			p.opts.metrics.ObservePublish(metrics.OutcomeRejected, result.Latency)
		}
	case <-time.After(p.opts.publishTimeout):
		result.Message = ErrPublishTimeout.Error()
		result.Latency = time.Since(start)
		p.opts.metrics.ObservePublish(metrics.OutcomeTimeout, result.Latency)
	case <-ctx.Done():
		result.Message = ctx.Err().Error()
		result.Latency = time.Since(start)
		p.opts.metrics.ObservePublish(metrics.OutcomeError, result.Latency)
	}

	log.Debug("publish done",
		"endpoint", endpoint,
		"event", ev.ID,
		"success", result.Success,
		"latency", result.Latency)

	return result
}

// BatchPublish 并发向多个端点发布同一事件
//
// 每个端点独立失败：一个端点的错误或超时只记录在自己的
// 结果槽位中，不取消也不影响同批的其他端点。
// 返回顺序与输入顺序一致，与完成顺序无关。
func (p *Publisher) BatchPublish(ctx context.Context, endpoints []string, ev *SignedEvent) []PublishResult {
	results := make([]PublishResult, len(endpoints))

	var wg sync.WaitGroup
	for i, endpoint := range endpoints {
		wg.Add(1)
		go func(slot int, ep string) {
			defer wg.Done()
			results[slot] = p.Publish(ctx, ep, ev)
		}(i, endpoint)
	}
	wg.Wait()

	return results
}
