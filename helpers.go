package relayprobe

import (
	"fmt"

	"go.uber.org/multierr"
)

// CombineFailures 把批量发布结果中的失败聚合为一个错误
//
// 全部成功时返回 nil；否则返回包含每个失败端点及原因的组合错误，
// 方便调用方一次性上报或决定退出码。
func CombineFailures(results []PublishResult) error {
	var err error
	for _, r := range results {
		if !r.Success {
			err = multierr.Append(err, fmt.Errorf("%s: %s", r.Endpoint, r.Message))
		}
	}
	return err
}

// CombineUnhealthy 把批量健康检查结果中的失败聚合为一个错误
func CombineUnhealthy(results []HealthCheckResult) error {
	var err error
	for _, r := range results {
		if !r.Healthy {
			err = multierr.Append(err, fmt.Errorf("%s: %s", r.Endpoint, r.Error))
		}
	}
	return err
}
