package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceTable struct {
	handlers []Handler
}

func (s *sliceTable) Len() int                    { return len(s.handlers) }
func (s *sliceTable) Handler(i int) Handler       { return s.handlers[i] }
func (s *sliceTable) SetHandler(i int, h Handler) { s.handlers[i] = h }

func (s *sliceTable) raise(i int) {
	if h := s.handlers[i]; h != nil {
		h()
	}
}

func TestInstallWrapsEveryVector(t *testing.T) {
	tr, ring, _, _ := newTracer(0)
	cpu := &testCPU{}

	var served []int
	vt := &sliceTable{handlers: make([]Handler, 4)}
	for i := range vt.handlers {
		i := i
		vt.handlers[i] = func() { served = append(served, i) }
	}
	vt.handlers[2] = nil // unused vector

	require.NoError(t, tr.Install(vt, cpu))
	assert.True(t, tr.Active())
	assert.False(t, cpu.masked, "mask restored after patching")

	vt.raise(3)
	vt.raise(0)
	vt.raise(2)

	assert.Equal(t, []int{3, 0}, served, "original handlers still run")

	events := ring.Events()
	require.Len(t, events, 3)
	assert.Equal(t, []uint32{3, 0, 2}, ids(events))
	for _, e := range events {
		assert.True(t, e.Category.IsInterrupt())
		assert.Equal(t, uint32(0), e.Data)
	}
}

func TestInstallTwice(t *testing.T) {
	tr, _, _, _ := newTracer(0)
	cpu := &testCPU{}
	vt := &sliceTable{handlers: make([]Handler, 2)}

	require.NoError(t, tr.Install(vt, cpu))
	assert.ErrorIs(t, tr.Install(vt, cpu), ErrAlreadyInstalled)
}

func TestUninstallRestoresOriginals(t *testing.T) {
	tr, ring, _, _ := newTracer(0)
	cpu := &testCPU{}

	calls := 0
	vt := &sliceTable{handlers: []Handler{func() { calls++ }}}

	assert.ErrorIs(t, tr.Uninstall(cpu), ErrNotInstalled)

	require.NoError(t, tr.Install(vt, cpu))
	require.NoError(t, tr.Uninstall(cpu))
	assert.False(t, tr.Active())

	vt.raise(0)
	assert.Equal(t, 1, calls)
	assert.Empty(t, ring.Events())
}

func TestStoppedTracerStillDispatches(t *testing.T) {
	tr, ring, _, _ := newTracer(0)
	cpu := &testCPU{}

	calls := 0
	vt := &sliceTable{handlers: []Handler{func() { calls++ }}}
	require.NoError(t, tr.Install(vt, cpu))
	tr.Stop()

	vt.raise(0)

	assert.Equal(t, 1, calls)
	assert.Empty(t, ring.Events())
}
