package metrics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-crashtrace/crash"
	"github.com/moffa90/go-crashtrace/scratch"
	"github.com/moffa90/go-crashtrace/trace"
)

type fakeCPU struct{ cycles uint32 }

func (c *fakeCPU) DisableInterrupts() uint32 { return 0 }
func (c *fakeCPU) RestoreInterrupts(uint32)  {}
func (c *fakeCPU) CycleCount() uint32 {
	c.cycles++
	return c.cycles
}
func (c *fakeCPU) InterruptState() (uint16, uint16) { return 0, 1 }

func TestCollectorCountsOutcomes(t *testing.T) {
	c := NewCollector()

	c.FaultHandled(crash.Written)
	c.FaultHandled(crash.SnapshotPresent)
	c.FaultHandled(crash.SnapshotPresent)
	c.FaultHandled(crash.Outcome(42))
	c.RegionHealed()
	c.SnapshotCleared()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.faults[crash.Written]))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.faults[crash.SnapshotPresent]))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.faults[crash.InsufficientSpace]))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.healed))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cleared))

	expected := `
# HELP crashtrace_faults_total Faults handled by the snapshot writer, by outcome
# TYPE crashtrace_faults_total counter
crashtrace_faults_total{outcome="insufficient_space"} 0
crashtrace_faults_total{outcome="region_occupied"} 0
crashtrace_faults_total{outcome="snapshot_present"} 2
crashtrace_faults_total{outcome="written"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "crashtrace_faults_total"))
}

func TestCollectorWatchesRingAndScratch(t *testing.T) {
	c := NewCollector()
	ring := trace.New(&fakeCPU{})
	pool := scratch.NewPool(1024)

	c.WatchRing(ring)
	c.WatchScratch(pool)

	for i := 0; i < 70; i++ {
		ring.Record(trace.Software(1), 0, 1, 1)
	}
	buf, ok := pool.Alloc(100)
	require.True(t, ok)
	defer buf.Release()

	expected := `
# HELP crashtrace_scratch_used_bytes Scratch bytes currently handed out to printers
# TYPE crashtrace_scratch_used_bytes gauge
crashtrace_scratch_used_bytes 100
# HELP crashtrace_trace_events_recorded Events recorded into the trace ring since it was created or restored
# TYPE crashtrace_trace_events_recorded gauge
crashtrace_trace_events_recorded 70
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected),
		"crashtrace_trace_events_recorded", "crashtrace_scratch_used_bytes"))
}

func TestWriteText(t *testing.T) {
	c := NewCollector()
	c.SnapshotCleared()

	var buf bytes.Buffer
	require.NoError(t, c.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "# TYPE crashtrace_snapshots_cleared_total counter")
	assert.Contains(t, out, "crashtrace_snapshots_cleared_total 1")
	assert.Contains(t, out, "crashtrace_region_healed_total 0")
}
