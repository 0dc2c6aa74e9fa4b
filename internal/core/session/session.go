// Package session 提供到单个中继端点的会话管理
//
// 一个 Session 独占一条双工连接，维护生命周期状态、
// 收发计数和追加式活动日志，并向注册的观察者分发入站帧。
// Session 由创建它的上层操作独占，不跨组件共享。
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nostrkit/go-relayprobe/internal/util/logger"
	"github.com/nostrkit/go-relayprobe/pkg/types"
)

var log = logger.Logger("session")

// DefaultConnectTimeout 默认连接超时
const DefaultConnectTimeout = 5 * time.Second

// 会话相关错误
var (
	// ErrNotConnected 会话未处于已连接状态
	ErrNotConnected = errors.New("session not connected")
)

// MessageHandler 入站帧观察者
//
// 在会话读循环中同步调用，保证与日志追加的顺序一致。
// 观察者不应阻塞；需要长时间处理时应自行切换 goroutine。
type MessageHandler func(data []byte)

// StateHandler 状态变更观察者
type StateHandler func(oldState, newState types.SessionState)

// ============================================================================
//                              Session
// ============================================================================

// Session 到单个中继端点的会话
type Session struct {
	endpoint string
	conn     *websocket.Conn

	state        atomic.Int32 // types.SessionState
	msgCount     atomic.Int64
	errCount     atomic.Int64
	lastActivity atomic.Int64 // Unix nano

	// 活动日志（单消费者队列，DrainLog 原子换出）
	logMu  sync.Mutex
	logBuf []types.LogEntry

	// 观察者列表（复制后调用，避免持锁回调）
	handlerMu     sync.RWMutex
	msgHandlers   []MessageHandler
	stateHandlers []StateHandler

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Open 打开到指定端点的会话
//
// 会话先进入 Connecting 状态；在 timeout 内完成传输层握手则
// 转为 Connected，否则转为 Error 并返回错误。
// {连接成功, 超时, 出错} 三者只有最先发生的一个决定最终状态。
func Open(ctx context.Context, endpoint string, timeout time.Duration) (*Session, error) {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	s := &Session{
		endpoint: endpoint,
		done:     make(chan struct{}),
	}
	s.state.Store(int32(types.SessionConnecting))
	s.touch()
	s.appendLog(types.LogInfo, "connecting to "+endpoint, nil)

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.DialContext(dialCtx, endpoint, nil)
	if err != nil {
		s.transition(types.SessionConnecting, types.SessionError)
		s.errCount.Add(1)
		s.appendLog(types.LogError, "connect: "+err.Error(), nil)
		log.Debug("connect failed", "endpoint", endpoint, "err", err)
		return nil, fmt.Errorf("connect %s: %w", endpoint, err)
	}

	s.conn = conn
	if !s.transition(types.SessionConnecting, types.SessionConnected) {
		// 竞争者（超时/错误）先写入了终态
		_ = conn.Close()
		return nil, fmt.Errorf("connect %s: session no longer connecting", endpoint)
	}

	log.Debug("connected", "endpoint", endpoint)
	go s.readLoop()
	return s, nil
}

// ============================================================================
//                              状态
// ============================================================================

// State 返回当前会话状态
func (s *Session) State() types.SessionState {
	return types.SessionState(s.state.Load())
}

// Endpoint 返回目标端点地址
func (s *Session) Endpoint() string {
	return s.endpoint
}

// MessagesReceived 返回已接收帧计数
func (s *Session) MessagesReceived() int64 {
	return s.msgCount.Load()
}

// ErrorCount 返回已观察到的错误计数
func (s *Session) ErrorCount() int64 {
	return s.errCount.Load()
}

// LastActivity 返回最近一次活动时间
func (s *Session) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// Done 返回会话结束通知通道
//
// 传输层关闭或 Close 被调用后该通道关闭。
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// transition 状态迁移（先到先得）
//
// 仅当当前状态等于 from 时迁移到 to；竞争失败返回 false，
// 失败者不追加日志也不触发回调。
func (s *Session) transition(from, to types.SessionState) bool {
	if !s.state.CompareAndSwap(int32(from), int32(to)) {
		return false
	}
	s.touch()
	s.appendLog(types.LogInfo, "state: "+from.String()+" -> "+to.String(), nil)
	s.notifyState(from, to)
	return true
}

func (s *Session) touch() {
	s.lastActivity.Store(time.Now().UnixNano())
}

// ============================================================================
//                              收发
// ============================================================================

// Send 发送一帧
//
// 仅在 Connected 状态下有效，否则返回 ErrNotConnected。
func (s *Session) Send(frame []byte) error {
	if s.State() != types.SessionConnected {
		return ErrNotConnected
	}

	s.writeMu.Lock()
	err := s.conn.WriteMessage(websocket.TextMessage, frame)
	s.writeMu.Unlock()

	if err != nil {
		s.errCount.Add(1)
		s.appendLog(types.LogError, "send: "+err.Error(), nil)
		return fmt.Errorf("send: %w", err)
	}

	s.touch()
	s.appendLog(types.LogSent, "frame sent", frame)
	return nil
}

// readLoop 读循环
//
// 每收到一帧追加日志并同步分发给所有消息观察者。
// 传输层出错或关闭时结束会话。
func (s *Session) readLoop() {
	defer s.Close()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			// 主动关闭后读错误是预期行为，不计入错误
			if s.State() == types.SessionConnected {
				s.errCount.Add(1)
				s.appendLog(types.LogError, "read: "+err.Error(), nil)
				log.Debug("read loop ended", "endpoint", s.endpoint, "err", err)
			}
			return
		}

		s.msgCount.Add(1)
		s.touch()
		s.appendLog(types.LogReceived, "frame received", data)

		s.handlerMu.RLock()
		handlers := make([]MessageHandler, len(s.msgHandlers))
		copy(handlers, s.msgHandlers)
		s.handlerMu.RUnlock()

		for _, h := range handlers {
			h(data)
		}
	}
}

// ============================================================================
//                              观察者
// ============================================================================

// OnMessage 注册入站帧观察者
//
// 多个观察者可以共存（例如关联处理器加上通用日志转发器）。
// 会话关闭时观察者列表被清空，之后不再有回调。
func (s *Session) OnMessage(handler MessageHandler) {
	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()
	s.msgHandlers = append(s.msgHandlers, handler)
}

// OnStateChange 注册状态变更观察者
func (s *Session) OnStateChange(handler StateHandler) {
	s.handlerMu.Lock()
	defer s.handlerMu.Unlock()
	s.stateHandlers = append(s.stateHandlers, handler)
}

// notifyState 分发状态变更
func (s *Session) notifyState(oldState, newState types.SessionState) {
	s.handlerMu.RLock()
	handlers := make([]StateHandler, len(s.stateHandlers))
	copy(handlers, s.stateHandlers)
	s.handlerMu.RUnlock()

	for _, h := range handlers {
		h(oldState, newState)
	}
}

// ============================================================================
//                              活动日志
// ============================================================================

// appendLog 追加日志条目
func (s *Session) appendLog(kind types.LogKind, message string, payload []byte) {
	entry := types.LogEntry{
		Timestamp: time.Now(),
		Kind:      kind,
		Message:   message,
	}
	if payload != nil {
		entry.Payload = append([]byte(nil), payload...)
	}

	s.logMu.Lock()
	s.logBuf = append(s.logBuf, entry)
	s.logMu.Unlock()
}

// DrainLog 原子取走全部待处理日志条目
//
// 返回的条目按发生顺序排列；相对并发追加既不丢失也不重复。
// 供单消费者（RelayMonitor）轮询使用。
func (s *Session) DrainLog() []types.LogEntry {
	s.logMu.Lock()
	entries := s.logBuf
	s.logBuf = nil
	s.logMu.Unlock()
	return entries
}

// LogSnapshot 返回当前日志快照（不清空）
func (s *Session) LogSnapshot() []types.LogEntry {
	s.logMu.Lock()
	defer s.logMu.Unlock()
	entries := make([]types.LogEntry, len(s.logBuf))
	copy(entries, s.logBuf)
	return entries
}

// ============================================================================
//                              关闭
// ============================================================================

// Close 关闭会话
//
// 幂等；任何状态下调用都安全，最终状态总是 Disconnected。
// 第二次调用不产生额外的状态迁移和日志。
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		oldState := types.SessionState(s.state.Swap(int32(types.SessionDisconnected)))

		if s.conn != nil {
			_ = s.conn.Close()
		}

		if oldState != types.SessionDisconnected {
			s.touch()
			s.appendLog(types.LogInfo, "state: "+oldState.String()+" -> disconnected", nil)
			s.notifyState(oldState, types.SessionDisconnected)
		}

		// 清空观察者，关闭后不再有回调
		s.handlerMu.Lock()
		s.msgHandlers = nil
		s.stateHandlers = nil
		s.handlerMu.Unlock()

		close(s.done)
		log.Debug("session closed", "endpoint", s.endpoint)
	})
}
