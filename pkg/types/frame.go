// 中继线路帧的构造与解析。
//
// 线路帧为 JSON 数组，首元素是类型标签：
//
//	出站: ["REQ", subscriptionId, filter]
//	      ["CLOSE", subscriptionId]
//	      ["EVENT", signedEvent]
//	入站: ["OK", eventId, accepted, message]
//
// 引擎只需构造前三种、解析第四种；其余入站帧一律静默忽略。
package types

import (
	"encoding/json"
)

// ============================================================================
//                              Filter - 订阅过滤器
// ============================================================================

// Filter 订阅过滤器
//
// 探测只需要最小的过滤能力，字段均为可选。
type Filter struct {
	// Kinds 事件类型列表
	Kinds []int `json:"kinds,omitempty"`

	// Limit 返回事件数量上限
	Limit int `json:"limit,omitempty"`
}

// ============================================================================
//                              出站帧构造
// ============================================================================

// ReqFrame 构造订阅请求帧 ["REQ", subscriptionId, filter]
func ReqFrame(subscriptionID string, filter Filter) ([]byte, error) {
	return json.Marshal([]any{"REQ", subscriptionID, filter})
}

// CloseFrame 构造订阅取消帧 ["CLOSE", subscriptionId]
func CloseFrame(subscriptionID string) []byte {
	frame, _ := json.Marshal([]any{"CLOSE", subscriptionID})
	return frame
}

// EventFrame 构造事件发布帧 ["EVENT", signedEvent]
func EventFrame(ev *SignedEvent) ([]byte, error) {
	return json.Marshal([]any{"EVENT", ev})
}

// ============================================================================
//                              入站帧解析
// ============================================================================

// OKFrame 发布确认帧 ["OK", eventId, accepted, message]
type OKFrame struct {
	// EventID 被确认事件的 ID（关联 ID）
	EventID string

	// Accepted 中继是否接受该事件
	Accepted bool

	// Message 中继附带的说明（可为空）
	Message string
}

// ParseOK 解析发布确认帧
//
// 返回 ok=false 表示该帧不是合法的 OK 帧；
// 调用方应忽略这类帧而不是作为错误处理。
func ParseOK(data []byte) (frame OKFrame, ok bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) < 3 {
		return OKFrame{}, false
	}

	var label string
	if err := json.Unmarshal(raw[0], &label); err != nil || label != "OK" {
		return OKFrame{}, false
	}

	if err := json.Unmarshal(raw[1], &frame.EventID); err != nil {
		return OKFrame{}, false
	}
	if err := json.Unmarshal(raw[2], &frame.Accepted); err != nil {
		return OKFrame{}, false
	}

	// message 可选
	if len(raw) >= 4 {
		if err := json.Unmarshal(raw[3], &frame.Message); err != nil {
			return OKFrame{}, false
		}
	}

	return frame, true
}
