package relayprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineFailures(t *testing.T) {
	allGood := []PublishResult{
		{Endpoint: "wss://a", Success: true},
		{Endpoint: "wss://b", Success: true},
	}
	assert.NoError(t, CombineFailures(allGood))

	mixed := []PublishResult{
		{Endpoint: "wss://a", Success: true},
		{Endpoint: "wss://b", Success: false, Message: "publish timeout"},
		{Endpoint: "wss://c", Success: false, Message: "connect refused"},
	}
	err := CombineFailures(mixed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wss://b")
	assert.Contains(t, err.Error(), "publish timeout")
	assert.Contains(t, err.Error(), "wss://c")
}

func TestCombineUnhealthy(t *testing.T) {
	assert.NoError(t, CombineUnhealthy([]HealthCheckResult{{Endpoint: "wss://a", Healthy: true}}))

	err := CombineUnhealthy([]HealthCheckResult{
		{Endpoint: "wss://a", Healthy: false, Error: "dial tcp: refused"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wss://a")
}
