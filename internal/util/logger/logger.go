// Package logger 提供 relayprobe 的统一日志系统
//
// 基于标准库 log/slog，支持：
//   - 按子系统配置日志级别
//   - 环境变量配置（RELAYPROBE_LOG_LEVEL, RELAYPROBE_LOG_FORMAT）
//   - 结构化日志
//
// 使用示例:
//
//	package session
//
//	import "github.com/nostrkit/go-relayprobe/internal/util/logger"
//
//	var log = logger.Logger("session")
//
//	func foo() {
//	    log.Info("connected", "endpoint", url, "latency", latency)
//	    log.Debug("frame received", "size", len(data))
//	    log.Error("connect failed", "err", err, "endpoint", url)
//	}
//
// 环境变量配置:
//
//	# 设置所有子系统为 info，session 子系统为 debug
//	RELAYPROBE_LOG_LEVEL=session=debug,info
//
//	# 使用 JSON 格式输出
//	RELAYPROBE_LOG_FORMAT=json
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	// loggers 缓存各子系统的 Logger
	loggers sync.Map // map[string]*slog.Logger

	// output 全局日志输出目标，默认 stderr
	output   io.Writer = os.Stderr
	outputMu sync.RWMutex
)

// Logger 获取指定子系统的 Logger
//
// 日志级别由 RELAYPROBE_LOG_LEVEL 环境变量决定。
// 同一子系统多次调用返回相同实例。
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	handler := newHandler(subsystem, cfg.LevelForSubsystem(subsystem), cfg.Format)
	l := slog.New(handler)

	actual, _ := loggers.LoadOrStore(subsystem, l)
	return actual.(*slog.Logger)
}

// SetOutput 设置全局日志输出目标
//
// 对已创建和后续创建的所有 Logger 生效。
func SetOutput(w io.Writer) {
	outputMu.Lock()
	output = w
	outputMu.Unlock()
}

// sharedWriter 在写入时动态查找全局输出目标，
// 保证 SetOutput 对已创建的 Logger 也能生效。
type sharedWriter struct{}

func (sharedWriter) Write(p []byte) (int, error) {
	outputMu.RLock()
	w := output
	outputMu.RUnlock()
	return w.Write(p)
}

// newHandler 创建带子系统标签的 slog.Handler
func newHandler(subsystem string, level slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}

	var inner slog.Handler
	if format == FormatJSON {
		inner = slog.NewJSONHandler(sharedWriter{}, opts)
	} else {
		inner = slog.NewTextHandler(sharedWriter{}, opts)
	}

	return inner.WithAttrs([]slog.Attr{slog.String("subsystem", subsystem)})
}
