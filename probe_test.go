package relayprobe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
//                              健康检查
// ============================================================================

func TestProber_Check_Healthy(t *testing.T) {
	endpoint := startRelay(t, "", eoseHandler())

	prober, err := NewProber(WithProbeReadWait(200 * time.Millisecond))
	require.NoError(t, err)

	result := prober.Check(context.Background(), endpoint)

	assert.True(t, result.Healthy)
	assert.True(t, result.SupportsRead)
	assert.True(t, result.SupportsWrite)
	assert.Greater(t, result.Latency, time.Duration(0))
	assert.GreaterOrEqual(t, result.ResponseTime, result.Latency)
	assert.Empty(t, result.Error)
	assert.Equal(t, endpoint, result.Endpoint)
	assert.False(t, result.CheckedAt.IsZero())
}

func TestProber_Check_Unreachable(t *testing.T) {
	prober, err := NewProber(WithConnectTimeout(500 * time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	result := prober.Check(context.Background(), "ws://127.0.0.1:1")

	assert.False(t, result.Healthy)
	assert.NotEmpty(t, result.Error)
	assert.False(t, result.SupportsRead)
	assert.False(t, result.SupportsWrite)
	assert.Less(t, time.Since(start), 5*time.Second)
}

// Error 非空当且仅当 Healthy 为 false
func TestProber_Check_ErrorIffUnhealthy(t *testing.T) {
	endpoint := startRelay(t, "", nil)

	prober, err := NewProber(WithProbeReadWait(50 * time.Millisecond))
	require.NoError(t, err)

	healthy := prober.Check(context.Background(), endpoint)
	assert.True(t, healthy.Healthy)
	assert.Empty(t, healthy.Error)

	unhealthy := prober.Check(context.Background(), "ws://127.0.0.1:1")
	assert.False(t, unhealthy.Healthy)
	assert.NotEmpty(t, unhealthy.Error)
}

// ============================================================================
//                              Ping
// ============================================================================

func TestProber_Ping(t *testing.T) {
	endpoint := startRelay(t, "", nil)

	prober, err := NewProber()
	require.NoError(t, err)

	latency, err := prober.Ping(context.Background(), endpoint)
	require.NoError(t, err)
	assert.Greater(t, latency, time.Duration(0))
}

func TestProber_Ping_Unreachable(t *testing.T) {
	prober, err := NewProber(WithConnectTimeout(500 * time.Millisecond))
	require.NoError(t, err)

	_, err = prober.Ping(context.Background(), "ws://127.0.0.1:1")
	assert.Error(t, err)
}
