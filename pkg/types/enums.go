package types

// ============================================================================
//                              SessionState - 会话状态
// ============================================================================

// SessionState 会话状态
type SessionState int32

const (
	// SessionDisconnected 已断开
	SessionDisconnected SessionState = iota
	// SessionConnecting 连接中
	SessionConnecting
	// SessionConnected 已连接
	SessionConnected
	// SessionError 连接出错
	SessionError
)

// String 返回状态的字符串表示
func (s SessionState) String() string {
	switch s {
	case SessionDisconnected:
		return "disconnected"
	case SessionConnecting:
		return "connecting"
	case SessionConnected:
		return "connected"
	case SessionError:
		return "error"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              LogKind - 日志条目类型
// ============================================================================

// LogKind 会话日志条目类型
type LogKind int

const (
	// LogInfo 一般信息（状态变更等）
	LogInfo LogKind = iota
	// LogSent 已发送帧
	LogSent
	// LogReceived 已接收帧
	LogReceived
	// LogError 错误
	LogError
)

// String 返回类型的字符串表示
func (k LogKind) String() string {
	switch k {
	case LogInfo:
		return "info"
	case LogSent:
		return "sent"
	case LogReceived:
		return "received"
	case LogError:
		return "error"
	default:
		return "unknown"
	}
}
