package relayprobe

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nostrkit/go-relayprobe/internal/core/session"
)

// ════════════════════════════════════════════════════════════════════════════
//                              压力测试
// ════════════════════════════════════════════════════════════════════════════

// StressRunner 并发连接压力测试器
type StressRunner struct {
	opts *options
}

// NewStressRunner 创建压力测试器
func NewStressRunner(opts ...Option) (*StressRunner, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &StressRunner{opts: o}, nil
}

// Run 对端点执行一次压力测试
//
// 并发发起 connections 次独立连接尝试；每次尝试在成功后
// 保持连接一段均匀分布的随机时长（0 到 WithStressHoldMax 上限）
// 再关闭，失败则计数后结束，不重试。操作等待全部尝试完成。
//
// duration 目前只用于记录，不硬性截断在途的连接尝试，
// 为将来的速率整形保留；结果中的 Duration 是实际墙钟耗时。
func (r *StressRunner) Run(ctx context.Context, endpoint string, connections int, duration time.Duration) StressTestResult {
	result := StressTestResult{
		Endpoint:         endpoint,
		TotalConnections: connections,
	}
	if connections <= 0 {
		log.Warn("stress run skipped", "endpoint", endpoint, "err", ErrNoConnections)
		return result
	}

	start := time.Now()

	// 可选的并发上限；默认全部同时发起
	var sem *semaphore.Weighted
	if r.opts.stressConcurrency > 0 {
		sem = semaphore.NewWeighted(int64(r.opts.stressConcurrency))
	}

	// 每个尝试一个槽位，恰好写一次，无共享计数器
	type attempt struct {
		ok      bool
		latency time.Duration
	}
	attempts := make([]attempt, connections)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func(slot *attempt) {
			defer wg.Done()

			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					return
				}
				defer sem.Release(1)
			}

			connStart := time.Now()
			s, err := session.Open(ctx, endpoint, r.opts.connectTimeout)
			if err != nil {
				r.opts.metrics.ObserveStressConnect(false, 0)
				return
			}

			slot.ok = true
			slot.latency = time.Since(connStart)
			r.opts.metrics.ObserveStressConnect(true, slot.latency)

			// 模拟持续负载
			hold := time.Duration(rand.Int63n(int64(r.opts.stressHoldMax)))
			select {
			case <-time.After(hold):
			case <-ctx.Done():
			case <-s.Done():
			}

			s.Close()
		}(&attempts[i])
	}
	wg.Wait()

	var total time.Duration
	for _, a := range attempts {
		if a.ok {
			result.Successful++
			total += a.latency
		}
	}
	result.Failed = connections - result.Successful
	if result.Successful > 0 {
		result.AverageLatency = total / time.Duration(result.Successful)
	}
	result.Duration = time.Since(start)

	log.Info("stress run done",
		"endpoint", endpoint,
		"total", result.TotalConnections,
		"ok", result.Successful,
		"failed", result.Failed,
		"requested", duration,
		"elapsed", result.Duration)

	return result
}
