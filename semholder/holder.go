package semholder

import (
	"github.com/osprey-rtos/rtcommon/logging"
	"github.com/osprey-rtos/rtcommon/sched"
)

// holder records one task's unmatched acquires on one semaphore.  In
// freelist mode the record doubles as the list node, threaded on flink,
// for both the engine's free list and the semaphore's holder list.
//
// Invariant: counts > 0 exactly when htcb is non-nil and the record is
// reachable from its semaphore.
type holder struct {
	flink  *holder
	htcb   *sched.TCB
	counts int
}

// allocHolder produces an empty holder record for sem, from the engine free
// list or from the semaphore's built-in slots depending on mode.  Exhaustion
// is reported but not fatal: the caller treats nil as "priority inheritance
// unavailable for this holder" and carries on.
func (e *Engine) allocHolder(sem *Sem) *holder {
	var pholder *holder

	if e.prealloc > 0 {
		pholder = e.free
		if pholder != nil {
			e.free = pholder.flink
			pholder.flink = sem.hhead
			sem.hhead = pholder
			pholder.counts = 0
		}
	} else {
		if sem.slots[0].htcb == nil {
			pholder = &sem.slots[0]
			pholder.counts = 0
		} else if sem.slots[1].htcb == nil {
			pholder = &sem.slots[1]
			pholder.counts = 0
		}
	}

	if pholder == nil {
		logging.Error(e.logger).Log(logging.MessageKey(), "insufficient pre-allocated holders")
		e.measures.PoolExhaustions.Add(1.0)
	}

	return pholder
}

// freeHolder empties the record and, in freelist mode, unlinks it from the
// semaphore and returns it to the engine free list.
func (e *Engine) freeHolder(sem *Sem, pholder *holder) {
	pholder.htcb = nil
	pholder.counts = 0

	if e.prealloc > 0 {
		var prev *holder
		curr := sem.hhead
		for curr != nil && curr != pholder {
			prev = curr
			curr = curr.flink
		}

		if curr != nil {
			if prev != nil {
				prev.flink = pholder.flink
			} else {
				sem.hhead = pholder.flink
			}

			pholder.flink = e.free
			e.free = pholder
		}
	}
}

// NumFreeHolders returns the number of available holder records on the
// engine free list.  This is a good way to find out which semaphores are
// never destroyed.  It always returns zero in embedded mode.
func (e *Engine) NumFreeHolders() int {
	n := 0
	for pholder := e.free; pholder != nil; pholder = pholder.flink {
		n++
	}

	return n
}
