package relayprobe

import (
	"time"

	"github.com/nostrkit/go-relayprobe/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              公共类型别名
// ════════════════════════════════════════════════════════════════════════════

// SignedEvent 已签名的中继事件（由外部签名器产生）
type SignedEvent = types.SignedEvent

// SessionState 会话状态
type SessionState = types.SessionState

// LogEntry 会话活动日志条目
type LogEntry = types.LogEntry

// RelayInfo 中继元数据文档
type RelayInfo = types.RelayInfo

// 会话状态取值
const (
	StateDisconnected = types.SessionDisconnected
	StateConnecting   = types.SessionConnecting
	StateConnected    = types.SessionConnected
	StateError        = types.SessionError
)

// ════════════════════════════════════════════════════════════════════════════
//                              健康检查结果
// ════════════════════════════════════════════════════════════════════════════

// HealthCheckResult 单次健康探测的结果
//
// 探测结束后即不可变。Error 非空当且仅当 Healthy 为 false。
type HealthCheckResult struct {
	// Endpoint 目标端点地址
	Endpoint string

	// Healthy 端点是否健康（连接在超时内建立成功）
	Healthy bool

	// Latency 连接建立耗时
	Latency time.Duration

	// SupportsRead 读能力（订阅帧发送成功即视为具备）
	SupportsRead bool

	// SupportsWrite 写能力
	//
	// 连接建立成功即视为可写：真正验证写权限需要一次完整的
	// 签名发布往返，探测阶段无法做到，这是有意保留的简化。
	SupportsWrite bool

	// ResponseTime 整个探测操作的耗时
	ResponseTime time.Duration

	// CheckedAt 探测时间
	CheckedAt time.Time

	// Error 失败原因（仅在 Healthy 为 false 时非空）
	Error string
}

// ════════════════════════════════════════════════════════════════════════════
//                              合规性结果
// ════════════════════════════════════════════════════════════════════════════

// ComplianceResult 端点协议合规性评分
//
// 不变量: 0 ≤ SuccessRatio ≤ 1，TrialsRun 等于实际执行的试验数。
type ComplianceResult struct {
	// Endpoint 目标端点地址
	Endpoint string

	// ProtocolCompliant 是否声明支持基础协议能力
	ProtocolCompliant bool

	// SupportsAuth 是否声明支持认证能力
	SupportsAuth bool

	// SupportsCount 是否声明支持计数能力
	SupportsCount bool

	// AverageLatency 成功试验的平均延迟（全部失败时为 0）
	AverageLatency time.Duration

	// SuccessRatio 连通性试验成功比例
	SuccessRatio float64

	// TrialsRun 执行的试验次数
	TrialsRun int

	// Info 元数据文档（获取失败时为 nil）
	Info *RelayInfo
}

// ════════════════════════════════════════════════════════════════════════════
//                              发布结果
// ════════════════════════════════════════════════════════════════════════════

// PublishResult 单次发布的结果
//
// 每个 (端点, 事件) 对只产生一个结果：第一个标识匹配的
// 确认帧决定成败，之后到达的确认帧被忽略。
type PublishResult struct {
	// Endpoint 目标端点地址
	Endpoint string

	// Success 中继是否在时限内接受了事件
	Success bool

	// EventID 被发布事件的标识（关联 ID）
	EventID string

	// Message 中继附带的说明或失败原因
	Message string

	// PublishedAt 发布时间
	PublishedAt time.Time

	// Latency 从发起到决定性事件（确认或超时）的耗时
	Latency time.Duration
}

// ════════════════════════════════════════════════════════════════════════════
//                              压测结果
// ════════════════════════════════════════════════════════════════════════════

// StressTestResult 压力测试汇总
//
// 不变量: Successful + Failed == TotalConnections。
type StressTestResult struct {
	// Endpoint 目标端点地址
	Endpoint string

	// TotalConnections 发起的连接尝试总数
	TotalConnections int

	// Successful 成功建立的连接数
	Successful int

	// Failed 失败的连接数
	Failed int

	// AverageLatency 成功连接的平均建立耗时
	AverageLatency time.Duration

	// Duration 整个压测的墙钟耗时
	Duration time.Duration
}
