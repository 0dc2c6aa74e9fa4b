package relayprobe

import (
	"context"
	"sync"

	"github.com/nostrkit/go-relayprobe/internal/core/session"
)

// ════════════════════════════════════════════════════════════════════════════
//                              会话监控
// ════════════════════════════════════════════════════════════════════════════

// LogCallback 日志转发回调
type LogCallback func(entry LogEntry)

// StatusCallback 状态变更回调
type StatusCallback func(oldState, newState SessionState)

// CancelFunc 监控取消句柄
//
// 强制关闭会话并停止轮询；幂等，可安全多次调用。
// 返回后不再有日志回调。
type CancelFunc func()

// Monitor 长生命周期的会话监控器
//
// 唯一具有不定生命周期的组件：打开一个长连接，
// 把会话的活动日志和状态变更持续转发给外部观察者，
// 直到传输层关闭或被显式取消。
type Monitor struct {
	opts *options
}

// NewMonitor 创建会话监控器
func NewMonitor(opts ...Option) (*Monitor, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Monitor{opts: o}, nil
}

// Start 开始监控端点
//
// 按固定间隔原子取走会话日志并按到达顺序转发给 onLog
// （相对并发追加既不丢失也不重复）；每次状态变更调用
// onStatus。传输层关闭时轮询自动结束。
//
// 返回的取消句柄关闭会话并等待轮询循环退出，
// 因此取消返回后保证没有后续的日志回调。
func (m *Monitor) Start(ctx context.Context, endpoint string, onLog LogCallback, onStatus StatusCallback) (CancelFunc, error) {
	s, err := session.Open(ctx, endpoint, m.opts.connectTimeout)
	if err != nil {
		return nil, err
	}

	if onStatus != nil {
		s.OnStateChange(func(oldState, newState SessionState) {
			onStatus(oldState, newState)
		})
	}

	forward := func() {
		if onLog == nil {
			return
		}
		for _, entry := range s.DrainLog() {
			onLog(entry)
		}
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)

		ticker := m.opts.clock.Ticker(m.opts.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				forward()
			case <-s.Done():
				// 传输层关闭：转发剩余条目后结束
				forward()
				return
			case <-stopCh:
				forward()
				return
			}
		}
	}()

	log.Info("monitor started", "endpoint", endpoint)

	var cancelOnce sync.Once
	cancel := func() {
		cancelOnce.Do(func() {
			// 先关会话，让断开迁移的日志条目进入最后一次转发
			s.Close()
			close(stopCh)
		})
		// 等待轮询循环退出，保证取消返回后无回调
		<-doneCh
	}

	return cancel, nil
}
