// Package relayprobe 提供中继端点的探测与诊断引擎
//
// relayprobe 面向联邦式发布/订阅消息网络（中继网络），
// 通过短生命周期的双工会话测量端点的健康度、延迟与协议合规性，
// 协调发布确认关联，并驱动并发压力测试。
//
// # 核心组件
//
//   - Prober: 健康检查与延迟测量
//   - ComplianceTester: 元数据 + 连通性试验的合规性评分
//   - Publisher: 发布已签名事件并关联确认帧
//   - StressRunner: 并发连接压力测试
//   - Monitor: 长生命周期的会话日志/状态流
//
// # 快速开始
//
//	import "github.com/nostrkit/go-relayprobe"
//
//	prober, err := relayprobe.NewProber()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := prober.Check(ctx, "wss://relay.example.com")
//	if result.Healthy {
//	    fmt.Printf("latency: %v\n", result.Latency)
//	} else {
//	    fmt.Printf("unhealthy: %s\n", result.Error)
//	}
//
// # 错误模型
//
// 所有探测/发布/压测操作都返回完整填充的结果值，失败信息
// 记录在结果字段中而不是向外抛出；并发扇出中单个端点的
// 失败只影响自己的结果槽位，不取消同批的其他端点。
package relayprobe
