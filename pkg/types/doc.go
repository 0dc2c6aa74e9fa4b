// Package types 定义 relayprobe 公共类型
//
// 包含会话状态枚举、活动日志条目、签名事件以及
// 中继线路帧（REQ / CLOSE / EVENT / OK）的构造与解析。
package types
