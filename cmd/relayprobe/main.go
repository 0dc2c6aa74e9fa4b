// Package main 提供 relayprobe 命令行入口
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	relayprobe "github.com/nostrkit/go-relayprobe"
	"github.com/nostrkit/go-relayprobe/internal/util/logger"
)

var log = logger.Logger("cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	mode        = flag.String("mode", "check", "操作模式 (check/ping/compliance/publish/stress/monitor)")
	relays      = flag.String("relays", "", "逗号分隔的中继端点列表 (ws:// 或 wss://)")
	eventFile   = flag.String("event", "", "已签名事件 JSON 文件路径 (publish 模式)")
	connections = flag.Int("connections", 10, "压测并发连接数 (stress 模式)")
	duration    = flag.Duration("duration", 10*time.Second, "压测时长 (stress 模式，记录用)")
	timeout     = flag.Duration("timeout", relayprobe.DefaultConnectTimeout, "连接超时")
)

func main() {
	flag.Parse()

	endpoints := splitEndpoints(*relays)
	if len(endpoints) == 0 {
		fmt.Fprintln(os.Stderr, "用法: relayprobe -mode <mode> -relays wss://relay1,wss://relay2 [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, endpoints); err != nil {
		log.Error("run failed", "mode", *mode, "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, endpoints []string) error {
	opts := []relayprobe.Option{relayprobe.WithConnectTimeout(*timeout)}

	switch *mode {
	case "check":
		return runCheck(ctx, endpoints, opts)
	case "ping":
		return runPing(ctx, endpoints, opts)
	case "compliance":
		return runCompliance(ctx, endpoints, opts)
	case "publish":
		return runPublish(ctx, endpoints, opts)
	case "stress":
		return runStress(ctx, endpoints, opts)
	case "monitor":
		return runMonitor(ctx, endpoints[0], opts)
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 各模式实现
// ═══════════════════════════════════════════════════════════════════════════

func runCheck(ctx context.Context, endpoints []string, opts []relayprobe.Option) error {
	prober, err := relayprobe.NewProber(opts...)
	if err != nil {
		return err
	}

	results := make([]relayprobe.HealthCheckResult, 0, len(endpoints))
	for _, ep := range endpoints {
		r := prober.Check(ctx, ep)
		results = append(results, r)
		if r.Healthy {
			fmt.Printf("%s  healthy  latency=%v read=%v write=%v\n",
				r.Endpoint, r.Latency, r.SupportsRead, r.SupportsWrite)
		} else {
			fmt.Printf("%s  UNHEALTHY  %s\n", r.Endpoint, r.Error)
		}
	}

	return relayprobe.CombineUnhealthy(results)
}

func runPing(ctx context.Context, endpoints []string, opts []relayprobe.Option) error {
	prober, err := relayprobe.NewProber(opts...)
	if err != nil {
		return err
	}

	for _, ep := range endpoints {
		latency, err := prober.Ping(ctx, ep)
		if err != nil {
			fmt.Printf("%s  unreachable: %v\n", ep, err)
			continue
		}
		fmt.Printf("%s  %v\n", ep, latency)
	}
	return nil
}

func runCompliance(ctx context.Context, endpoints []string, opts []relayprobe.Option) error {
	tester, err := relayprobe.NewComplianceTester(opts...)
	if err != nil {
		return err
	}

	for _, r := range tester.CompareEndpoints(ctx, endpoints) {
		fmt.Printf("%s  protocol=%v auth=%v count=%v ratio=%.2f avg=%v\n",
			r.Endpoint, r.ProtocolCompliant, r.SupportsAuth, r.SupportsCount,
			r.SuccessRatio, r.AverageLatency)
	}
	return nil
}

func runPublish(ctx context.Context, endpoints []string, opts []relayprobe.Option) error {
	if *eventFile == "" {
		return fmt.Errorf("publish mode requires -event")
	}

	data, err := os.ReadFile(*eventFile)
	if err != nil {
		return fmt.Errorf("read event file: %w", err)
	}
	var ev relayprobe.SignedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return fmt.Errorf("parse event file: %w", err)
	}

	publisher, err := relayprobe.NewPublisher(opts...)
	if err != nil {
		return err
	}

	results := publisher.BatchPublish(ctx, endpoints, &ev)
	for _, r := range results {
		if r.Success {
			fmt.Printf("%s  accepted  latency=%v  %s\n", r.Endpoint, r.Latency, r.Message)
		} else {
			fmt.Printf("%s  FAILED  %s\n", r.Endpoint, r.Message)
		}
	}

	return relayprobe.CombineFailures(results)
}

func runStress(ctx context.Context, endpoints []string, opts []relayprobe.Option) error {
	runner, err := relayprobe.NewStressRunner(opts...)
	if err != nil {
		return err
	}

	for _, ep := range endpoints {
		r := runner.Run(ctx, ep, *connections, *duration)
		fmt.Printf("%s  total=%d ok=%d failed=%d avg=%v elapsed=%v\n",
			r.Endpoint, r.TotalConnections, r.Successful, r.Failed,
			r.AverageLatency, r.Duration)
	}
	return nil
}

func runMonitor(ctx context.Context, endpoint string, opts []relayprobe.Option) error {
	monitor, err := relayprobe.NewMonitor(opts...)
	if err != nil {
		return err
	}

	cancel, err := monitor.Start(ctx, endpoint,
		func(entry relayprobe.LogEntry) {
			fmt.Printf("%s  [%s]  %s\n",
				entry.Timestamp.Format(time.RFC3339Nano), entry.Kind, entry.Message)
		},
		func(oldState, newState relayprobe.SessionState) {
			fmt.Printf("status: %s -> %s\n", oldState, newState)
		})
	if err != nil {
		return err
	}
	defer cancel()

	<-ctx.Done()
	return nil
}

// splitEndpoints 解析逗号分隔的端点列表
func splitEndpoints(s string) []string {
	var endpoints []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			endpoints = append(endpoints, part)
		}
	}
	return endpoints
}
