package semholder

import (
	"testing"

	"github.com/osprey-rtos/rtcommon/logging"
	"github.com/osprey-rtos/rtcommon/sched"
	"github.com/osprey-rtos/rtcommon/sched/schedtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, k *schedtest.Kernel, o *Options) *Engine {
	require.NotNil(t, k)

	if o == nil {
		o = new(Options)
	}

	if o.Logger == nil {
		o.Logger = logging.NewTestLogger(nil, t)
	}

	return New(k, o)
}

func testAllocFreelist(t *testing.T) {
	var (
		assert = assert.New(t)

		k   = schedtest.NewKernel()
		e   = newTestEngine(t, k, &Options{PreallocHolders: 2})
		sem = NewSem()

		t1 = k.Spawn(1, "t1", 10, 0)
		t2 = k.Spawn(2, "t2", 10, 0)
		t3 = k.Spawn(3, "t3", 10, 0)
	)

	assert.Equal(2, e.NumFreeHolders())

	e.AddHolderTCB(t1, sem)
	e.AddHolderTCB(t2, sem)
	assert.Equal(0, e.NumFreeHolders())
	assert.Equal(1, e.HeldCounts(sem, t1))
	assert.Equal(1, e.HeldCounts(sem, t2))

	// exhausted: bookkeeping degrades, the third holder is simply absent
	e.AddHolderTCB(t3, sem)
	assert.Zero(e.HeldCounts(sem, t3))

	// further acquires by an existing holder need no new record
	e.AddHolderTCB(t1, sem)
	assert.Equal(2, e.HeldCounts(sem, t1))
}

func testAllocEmbedded(t *testing.T) {
	var (
		assert = assert.New(t)

		k   = schedtest.NewKernel()
		e   = newTestEngine(t, k, nil)
		sem = NewSem()

		t1 = k.Spawn(1, "t1", 10, 0)
		t2 = k.Spawn(2, "t2", 10, 0)
		t3 = k.Spawn(3, "t3", 10, 0)
	)

	assert.Zero(e.NumFreeHolders())

	e.AddHolderTCB(t1, sem)
	e.AddHolderTCB(t2, sem)
	e.AddHolderTCB(t3, sem)
	assert.Equal(1, e.HeldCounts(sem, t1))
	assert.Equal(1, e.HeldCounts(sem, t2))
	assert.Zero(e.HeldCounts(sem, t3))
}

func TestAlloc(t *testing.T) {
	t.Run("Freelist", testAllocFreelist)
	t.Run("Embedded", testAllocEmbedded)
}

func testFreeHolderRecycles(t *testing.T) {
	var (
		assert = assert.New(t)

		k   = schedtest.NewKernel()
		e   = newTestEngine(t, k, &Options{PreallocHolders: 1})
		s1  = NewSem()
		s2  = NewSem()
		t1  = k.Spawn(1, "t1", 10, 0)
		t2  = k.Spawn(2, "t2", 10, 0)
	)

	e.AddHolderTCB(t1, s1)
	assert.Zero(e.NumFreeHolders())

	// release the only count, then let the restore path free the record
	k.SetCurrent(t1)
	e.ReleaseHolder(s1)
	e.RestoreBasePriority(nil, s1)
	assert.Equal(1, e.NumFreeHolders())

	// record is reusable by another semaphore
	e.AddHolderTCB(t2, s2)
	assert.Equal(1, e.HeldCounts(s2, t2))
	assert.Zero(e.NumFreeHolders())
}

func TestFreeHolder(t *testing.T) {
	t.Run("Recycles", testFreeHolderRecycles)
}

func testDestroyFreelist(t *testing.T) {
	var (
		assert = assert.New(t)

		k   = schedtest.NewKernel()
		e   = newTestEngine(t, k, &Options{PreallocHolders: 4, DebugAssertions: true})
		sem = NewSem()

		t1 = k.Spawn(1, "t1", 10, 0)
		t2 = k.Spawn(2, "t2", 30, 0)
	)

	e.AddHolderTCB(t1, sem)
	e.AddHolderTCB(t2, sem)
	assert.Equal(2, e.NumFreeHolders())

	t1.SchedPriority = 30 // pretend a boost is still active

	e.Destroy(sem)
	assert.Equal(4, e.NumFreeHolders())

	// destroy never adjusts priorities
	assert.Equal(sched.Priority(30), t1.SchedPriority)
	assert.Empty(k.Changes)
}

func testDestroyEmbedded(t *testing.T) {
	var (
		assert = assert.New(t)

		k   = schedtest.NewKernel()
		e   = newTestEngine(t, k, nil)
		sem = NewSem()

		t1 = k.Spawn(1, "t1", 10, 0)
		t2 = k.Spawn(2, "t2", 30, 0)
		t3 = k.Spawn(3, "t3", 20, 0)
	)

	e.AddHolderTCB(t1, sem)
	e.AddHolderTCB(t2, sem)
	e.Destroy(sem)

	assert.Zero(e.HeldCounts(sem, t1))
	assert.Zero(e.HeldCounts(sem, t2))

	// both slots are available again
	e.AddHolderTCB(t3, sem)
	assert.Equal(1, e.HeldCounts(sem, t3))
}

func TestDestroy(t *testing.T) {
	t.Run("Freelist", testDestroyFreelist)
	t.Run("Embedded", testDestroyEmbedded)
}
