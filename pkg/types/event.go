package types

// SignedEvent 已签名的中继事件
//
// 由外部签名器产生，探测引擎将其视为不透明负载，
// 仅读取 ID 用于发布确认关联。
type SignedEvent struct {
	// ID 事件标识（同时是发布确认的关联 ID）
	ID string `json:"id"`

	// PubKey 签名者公钥（hex）
	PubKey string `json:"pubkey"`

	// CreatedAt 创建时间（Unix 秒）
	CreatedAt int64 `json:"created_at"`

	// Kind 事件类型编号
	Kind int `json:"kind"`

	// Tags 标签列表
	Tags [][]string `json:"tags"`

	// Content 事件内容
	Content string `json:"content"`

	// Sig 签名（hex）
	Sig string `json:"sig"`
}
