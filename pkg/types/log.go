package types

import (
	"time"
)

// LogEntry 会话活动日志条目
//
// 每次发送、接收、出错和状态变更都会向会话日志追加一条记录，
// 构成会话的完整审计轨迹。条目按真实发生时间严格有序。
type LogEntry struct {
	// Timestamp 记录时间
	Timestamp time.Time

	// Kind 条目类型
	Kind LogKind

	// Message 人类可读描述
	Message string

	// Payload 原始帧数据（仅发送/接收条目，可为 nil）
	Payload []byte
}
