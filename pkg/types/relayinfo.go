// 中继元数据文档（NIP-11 relay information document）。
package types

// RelayInfo 中继元数据文档
//
// 通过伴生 HTTP 地址获取，字段缺失时保持零值。
type RelayInfo struct {
	// Name 中继名称
	Name string `json:"name"`

	// Description 中继描述
	Description string `json:"description"`

	// Software 软件名称
	Software string `json:"software"`

	// Version 软件版本
	Version string `json:"version"`

	// SupportedNIPs 支持的协议能力编号列表
	SupportedNIPs []int `json:"supported_nips"`

	// Limitation 中继限制声明（可为 nil）
	Limitation *RelayLimitation `json:"limitation,omitempty"`
}

// RelayLimitation 中继限制声明
type RelayLimitation struct {
	// AuthRequired 是否要求认证
	AuthRequired bool `json:"auth_required"`

	// PaymentRequired 是否要求付费
	PaymentRequired bool `json:"payment_required"`

	// MaxSubscriptions 最大订阅数（0 表示未声明）
	MaxSubscriptions int `json:"max_subscriptions"`

	// MaxMessageLength 最大消息长度（0 表示未声明）
	MaxMessageLength int `json:"max_message_length"`
}

// SupportsNIP 检查是否声明支持指定能力编号
func (i *RelayInfo) SupportsNIP(n int) bool {
	if i == nil {
		return false
	}
	for _, nip := range i.SupportedNIPs {
		if nip == n {
			return true
		}
	}
	return false
}
