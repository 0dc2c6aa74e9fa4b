package relayprobe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInfoDoc = `{
	"name": "test relay",
	"software": "testd",
	"version": "0.1.0",
	"supported_nips": [1, 42]
}`

// ============================================================================
//                              单端点合规性
// ============================================================================

func TestCompliance_WithMetadata(t *testing.T) {
	endpoint := startRelay(t, testInfoDoc, nil)

	tester, err := NewComplianceTester()
	require.NoError(t, err)

	result := tester.TestCompliance(context.Background(), endpoint)

	assert.True(t, result.ProtocolCompliant)
	assert.True(t, result.SupportsAuth)
	assert.False(t, result.SupportsCount)
	assert.Equal(t, ComplianceTrials, result.TrialsRun)
	assert.Equal(t, 1.0, result.SuccessRatio)
	assert.Greater(t, result.AverageLatency, time.Duration(0))
	require.NotNil(t, result.Info)
	assert.Equal(t, "testd", result.Info.Software)
}

// 元数据获取失败时能力标志退化为 false，连通性试验照常进行
func TestCompliance_MetadataUnavailable(t *testing.T) {
	endpoint := startRelay(t, "", nil)

	tester, err := NewComplianceTester()
	require.NoError(t, err)

	result := tester.TestCompliance(context.Background(), endpoint)

	assert.False(t, result.ProtocolCompliant)
	assert.False(t, result.SupportsAuth)
	assert.False(t, result.SupportsCount)
	assert.Nil(t, result.Info)
	assert.Equal(t, 1.0, result.SuccessRatio)
}

func TestCompliance_Unreachable(t *testing.T) {
	tester, err := NewComplianceTester(WithConnectTimeout(300 * time.Millisecond))
	require.NoError(t, err)

	result := tester.TestCompliance(context.Background(), "ws://127.0.0.1:1")

	assert.False(t, result.ProtocolCompliant)
	assert.Equal(t, 0.0, result.SuccessRatio)
	assert.Equal(t, time.Duration(0), result.AverageLatency)
	assert.Equal(t, ComplianceTrials, result.TrialsRun)
}

// SuccessRatio 始终落在 [0, 1] 且等于 成功数/试验数
func TestCompliance_RatioBounds(t *testing.T) {
	endpoint := startRelay(t, "", nil)

	tester, err := NewComplianceTester(WithConnectTimeout(300 * time.Millisecond))
	require.NoError(t, err)

	for _, ep := range []string{endpoint, "ws://127.0.0.1:1"} {
		result := tester.TestCompliance(context.Background(), ep)
		assert.GreaterOrEqual(t, result.SuccessRatio, 0.0)
		assert.LessOrEqual(t, result.SuccessRatio, 1.0)
	}
}

// ============================================================================
//                              多端点比较
// ============================================================================

func TestCompareEndpoints_InputOrder(t *testing.T) {
	good := startRelay(t, testInfoDoc, nil)
	bad := "ws://127.0.0.1:1"

	tester, err := NewComplianceTester(WithConnectTimeout(300 * time.Millisecond))
	require.NoError(t, err)

	// bad 在前：其结果仍必须占据第一个槽位
	results := tester.CompareEndpoints(context.Background(), []string{bad, good})

	require.Len(t, results, 2)
	assert.Equal(t, bad, results[0].Endpoint)
	assert.Equal(t, good, results[1].Endpoint)
	assert.Equal(t, 0.0, results[0].SuccessRatio)
	assert.Equal(t, 1.0, results[1].SuccessRatio)
}

func TestCompareEndpoints_Empty(t *testing.T) {
	tester, err := NewComplianceTester()
	require.NoError(t, err)

	results := tester.CompareEndpoints(context.Background(), nil)
	assert.Empty(t, results)
}
