package semholder

import "github.com/osprey-rtos/rtcommon/sched"

// holderHandler is invoked for each occupied holder record.  A non-zero
// return stops the iteration and becomes forEachHolder's result.
type holderHandler func(pholder *holder, sem *Sem) int

// findHolder locates the holder record for htcb on sem, or nil.  htcb is
// used only as a lookup key here: the task may have exited, so the handle
// must not be dereferenced until verified.
func (e *Engine) findHolder(sem *Sem, htcb *sched.TCB) *holder {
	// A nil key must not match an empty embedded slot.
	if htcb == nil {
		return nil
	}

	if e.prealloc > 0 {
		for pholder := sem.hhead; pholder != nil; pholder = pholder.flink {
			if pholder.htcb == htcb {
				return pholder
			}
		}

		return nil
	}

	for i := range sem.slots {
		if sem.slots[i].htcb == htcb {
			return &sem.slots[i]
		}
	}

	return nil
}

func (e *Engine) findOrAllocateHolder(sem *Sem, htcb *sched.TCB) *holder {
	pholder := e.findHolder(sem, htcb)
	if pholder == nil {
		pholder = e.allocHolder(sem)
	}

	return pholder
}

// findAndFreeHolder removes htcb's record once it no longer holds any
// counts.  The counts were decremented earlier, in ReleaseHolder.
func (e *Engine) findAndFreeHolder(sem *Sem, htcb *sched.TCB) {
	pholder := e.findHolder(sem, htcb)
	if pholder != nil && pholder.counts <= 0 {
		e.freeHolder(sem, pholder)
	}
}

// forEachHolder applies handler to every occupied holder record.  In
// freelist mode the next link is captured before the handler runs, so the
// handler may free the current record.
func (e *Engine) forEachHolder(sem *Sem, handler holderHandler) int {
	ret := 0

	if e.prealloc > 0 {
		var next *holder
		for pholder := sem.hhead; pholder != nil && ret == 0; pholder = next {
			// in case this holder gets deleted
			next = pholder.flink

			if pholder.htcb != nil {
				ret = handler(pholder, sem)
			}
		}

		return ret
	}

	for i := 0; i < len(sem.slots) && ret == 0; i++ {
		pholder := &sem.slots[i]

		// the built-in containers may hold a nil task
		if pholder.htcb != nil {
			ret = handler(pholder, sem)
		}
	}

	return ret
}

// HeldCounts returns the number of unmatched acquires tcb has on sem, or
// zero when tcb is not a holder.
func (e *Engine) HeldCounts(sem *Sem, tcb *sched.TCB) int {
	if pholder := e.findHolder(sem, tcb); pholder != nil {
		return pholder.counts
	}

	return 0
}
