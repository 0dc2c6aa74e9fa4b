package relayprobe

import (
	"context"
	"sync"
	"time"

	"github.com/nostrkit/go-relayprobe/internal/core/nip11"
)

// ════════════════════════════════════════════════════════════════════════════
//                              合规性测试
// ════════════════════════════════════════════════════════════════════════════

// ComplianceTrials 每次合规性测试的连通性试验次数
const ComplianceTrials = 3

// 能力编号到合规性标志的映射
const (
	nipBasicProtocol = 1
	nipAuth          = 42
	nipCount         = 45
)

// ComplianceTester 端点协议合规性测试器
//
// 合规性由两部分构成：元数据声明的能力编号集合，
// 以及固定次数连通性试验的经验结果。
type ComplianceTester struct {
	opts   *options
	prober *Prober
	meta   *nip11.Client
}

// NewComplianceTester 创建合规性测试器
func NewComplianceTester(opts ...Option) (*ComplianceTester, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &ComplianceTester{
		opts:   o,
		prober: &Prober{opts: o},
		meta:   nip11.NewClient(o.httpClient),
	}, nil
}

// TestCompliance 对端点执行一次合规性测试
//
// 元数据获取失败时能力标志保持 false，合规性退化为纯粹的
// 连通性度量；试验失败不重试、不上报，只是不贡献延迟样本。
// 本操作尽力而为，总是返回结果值，可能全为 false。
func (t *ComplianceTester) TestCompliance(ctx context.Context, endpoint string) ComplianceResult {
	result := ComplianceResult{
		Endpoint:  endpoint,
		TrialsRun: ComplianceTrials,
	}

	if info, err := t.meta.Fetch(ctx, endpoint); err == nil {
		result.Info = info
		result.ProtocolCompliant = info.SupportsNIP(nipBasicProtocol)
		result.SupportsAuth = info.SupportsNIP(nipAuth)
		result.SupportsCount = info.SupportsNIP(nipCount)
	} else {
		log.Debug("metadata unavailable", "endpoint", endpoint, "err", err)
	}

	successes := 0
	var total time.Duration
	for i := 0; i < ComplianceTrials; i++ {
		latency, err := t.prober.Ping(ctx, endpoint)
		if err != nil {
			continue
		}
		successes++
		total += latency
	}

	result.SuccessRatio = float64(successes) / float64(ComplianceTrials)
	if successes > 0 {
		result.AverageLatency = total / time.Duration(successes)
	}

	log.Debug("compliance tested",
		"endpoint", endpoint,
		"ratio", result.SuccessRatio,
		"avgLatency", result.AverageLatency)

	return result
}

// CompareEndpoints 并发测试多个端点的合规性
//
// 各端点之间无共享可变状态，每个端点的结果写入自己的槽位；
// 返回顺序与输入顺序一致，与完成顺序无关。
func (t *ComplianceTester) CompareEndpoints(ctx context.Context, endpoints []string) []ComplianceResult {
	results := make([]ComplianceResult, len(endpoints))

	var wg sync.WaitGroup
	for i, endpoint := range endpoints {
		wg.Add(1)
		go func(slot int, ep string) {
			defer wg.Done()
			results[slot] = t.TestCompliance(ctx, ep)
		}(i, endpoint)
	}
	wg.Wait()

	return results
}
