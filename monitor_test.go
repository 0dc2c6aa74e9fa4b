package relayprobe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nostrkit/go-relayprobe/pkg/types"
)

// logRecorder 线程安全的日志回调记录器
type logRecorder struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (r *logRecorder) record(entry LogEntry) {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

func (r *logRecorder) snapshot() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]LogEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// waitFor 轮询等待条件成立
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

// ============================================================================
//                              日志转发
// ============================================================================

func TestMonitor_ForwardsLogEntries(t *testing.T) {
	endpoint := startRelay(t, "", func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`["NOTICE","hello"]`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	monitor, err := NewMonitor(WithPollInterval(10 * time.Millisecond))
	require.NoError(t, err)

	rec := &logRecorder{}
	cancel, err := monitor.Start(context.Background(), endpoint, rec.record, nil)
	require.NoError(t, err)
	defer cancel()

	waitFor(t, 2*time.Second, func() bool {
		for _, e := range rec.snapshot() {
			if e.Kind == types.LogReceived {
				return true
			}
		}
		return false
	})

	// 转发保持到达顺序
	entries := rec.snapshot()
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.Before(entries[i-1].Timestamp))
	}
}

// ============================================================================
//                              状态变更
// ============================================================================

func TestMonitor_StatusChangeOnCancel(t *testing.T) {
	endpoint := startRelay(t, "", nil)

	monitor, err := NewMonitor(WithPollInterval(10 * time.Millisecond))
	require.NoError(t, err)

	var mu sync.Mutex
	var changes []SessionState
	cancel, err := monitor.Start(context.Background(), endpoint, nil,
		func(_, newState SessionState) {
			mu.Lock()
			changes = append(changes, newState)
			mu.Unlock()
		})
	require.NoError(t, err)

	cancel()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, changes)
	assert.Equal(t, StateDisconnected, changes[len(changes)-1])
}

// ============================================================================
//                              取消语义
// ============================================================================

func TestMonitor_CancelIdempotent(t *testing.T) {
	endpoint := startRelay(t, "", nil)

	monitor, err := NewMonitor(WithPollInterval(10 * time.Millisecond))
	require.NoError(t, err)

	cancel, err := monitor.Start(context.Background(), endpoint, func(LogEntry) {}, nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		cancel()
		cancel()
	})
}

// 取消返回后不再有日志回调
func TestMonitor_NoCallbacksAfterCancel(t *testing.T) {
	endpoint := startRelay(t, "", nil)

	monitor, err := NewMonitor(WithPollInterval(10 * time.Millisecond))
	require.NoError(t, err)

	rec := &logRecorder{}
	cancel, err := monitor.Start(context.Background(), endpoint, rec.record, nil)
	require.NoError(t, err)

	cancel()

	before := len(rec.snapshot())
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, len(rec.snapshot()))
}

// 传输层关闭时轮询自行结束，已有条目仍被转发
func TestMonitor_StopsOnServerDisconnect(t *testing.T) {
	endpoint := startRelay(t, "", func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`["NOTICE","bye"]`))
		_ = conn.Close()
	})

	monitor, err := NewMonitor(WithPollInterval(10 * time.Millisecond))
	require.NoError(t, err)

	rec := &logRecorder{}
	cancel, err := monitor.Start(context.Background(), endpoint, rec.record, nil)
	require.NoError(t, err)
	defer cancel()

	waitFor(t, 2*time.Second, func() bool {
		for _, e := range rec.snapshot() {
			if e.Kind == types.LogInfo && e.Message == "state: connected -> disconnected" {
				return true
			}
		}
		return false
	})
}

func TestMonitor_ConnectFailure(t *testing.T) {
	monitor, err := NewMonitor(WithConnectTimeout(300 * time.Millisecond))
	require.NoError(t, err)

	cancel, err := monitor.Start(context.Background(), "ws://127.0.0.1:1", nil, nil)
	assert.Error(t, err)
	assert.Nil(t, cancel)
}
