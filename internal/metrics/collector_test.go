package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTiming(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpRoute, 10*time.Millisecond)
	c.RecordTiming(OpRoute, 30*time.Millisecond)

	snap := c.Snapshot()
	require.NotNil(t, snap.Route)
	assert.Equal(t, int64(2), snap.Route.Count)
	assert.Equal(t, int64(10), snap.Route.MinTimeMs)
	assert.Equal(t, int64(30), snap.Route.MaxTimeMs)
	assert.Equal(t, int64(40), snap.Route.TotalTimeMs)
}

func TestRecordLLMUsage(t *testing.T) {
	c := NewCollector()

	c.RecordLLMUsage(OpOracle, 200*time.Millisecond, 100, 50)
	c.RecordLLMUsage(OpOracle, 400*time.Millisecond, 300, 150)

	snap := c.Snapshot()
	require.NotNil(t, snap.Oracle)
	assert.Equal(t, int64(2), snap.Oracle.Count)
	require.NotNil(t, snap.Oracle.TotalInputTokens)
	assert.Equal(t, int64(400), *snap.Oracle.TotalInputTokens)
	require.NotNil(t, snap.Oracle.AvgOutputTokens)
	assert.Equal(t, 100.0, *snap.Oracle.AvgOutputTokens)
}

func TestSnapshotEmptyOps(t *testing.T) {
	c := NewCollector()

	snap := c.Snapshot()
	assert.Nil(t, snap.Route)
	assert.Nil(t, snap.Oracle)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestConcurrentRecording(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordTiming(OpTool, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	require.NotNil(t, snap.Tools)
	assert.Equal(t, int64(1000), snap.Tools.Count)
}
