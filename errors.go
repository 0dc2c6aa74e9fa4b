package relayprobe

import "errors"

// 公共错误定义
var (
	// ErrPublishTimeout 发布确认超时
	ErrPublishTimeout = errors.New("publish timeout")

	// ErrInvalidEvent 事件缺少标识，无法关联确认帧
	ErrInvalidEvent = errors.New("event has no id")

	// ErrNoConnections 压测连接数必须为正
	ErrNoConnections = errors.New("connection count must be positive")
)
