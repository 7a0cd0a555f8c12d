package semholder

import (
	"github.com/go-kit/kit/log"

	"github.com/osprey-rtos/rtcommon/logging"
	"github.com/osprey-rtos/rtcommon/sched"
)

// Engine is the priority inheritance engine.  One engine serves every
// semaphore in a scheduling domain; it owns the holder record pool and
// applies the boost and restore rules against the external scheduler.
//
// All entry points other than New and Destroy assume preemption is
// inhibited by the caller.
type Engine struct {
	scheduler sched.Interface
	logger    log.Logger
	measures  *Measures

	prealloc int
	nested   bool

	debugAssertions bool
	verifyHolders   bool
	phDebug         bool

	pool []holder
	free *holder
}

// EngineOption configures optional engine collaborators.
type EngineOption func(*Engine)

// WithMeasures attaches metrics to the engine.  A nil Measures leaves the
// engine counting into discarded metrics.
func WithMeasures(m *Measures) EngineOption {
	return func(e *Engine) {
		if m != nil {
			e.measures = m
		}
	}
}

// New constructs an Engine against the given scheduler.  The options object
// may be nil, which selects embedded two-slot holder records, the simple
// (non-nested) protocol, and a NOP logger.
//
// In freelist mode the holder records are allocated here, once, and threaded
// onto the engine free list; nothing is allocated afterwards.  New panics if
// scheduler is nil.
func New(scheduler sched.Interface, o *Options, eo ...EngineOption) *Engine {
	if scheduler == nil {
		panic("semholder: a scheduler is required")
	}

	e := &Engine{
		scheduler:       scheduler,
		logger:          o.logger(),
		measures:        NewMeasures(nil),
		prealloc:        o.preallocHolders(),
		nested:          o.nestedBoosts() > 0,
		debugAssertions: o.debugAssertions(),
		verifyHolders:   o.verifyHolders(),
		phDebug:         o.phDebug(),
	}

	for _, f := range eo {
		f(e)
	}

	if e.prealloc > 0 {
		e.pool = make([]holder, e.prealloc)
		for i := 0; i < e.prealloc-1; i++ {
			e.pool[i].flink = &e.pool[i+1]
		}

		e.free = &e.pool[0]
	}

	return e
}

// Scheduler returns the scheduler this engine was constructed against.
func (e *Engine) Scheduler() sched.Interface {
	return e.scheduler
}

// AddHolderTCB registers that htcb obtained a count on sem: called from the
// wait path when the caller obtains the semaphore directly, and from the
// post path on behalf of the waiter that received the count.  The holder's
// own priority is never raised by its own acquire.
func (e *Engine) AddHolderTCB(htcb *sched.TCB, sem *Sem) {
	// If inheritance is disabled for this semaphore, do not add the holder.
	// With no holders ever recorded, inheritance is effectively off.
	if htcb == nil || sem.InheritanceDisabled() {
		return
	}

	pholder := e.findOrAllocateHolder(sem, htcb)
	if pholder != nil {
		pholder.htcb = htcb
		pholder.counts++
	}
}

// AddHolder registers the currently executing task as a holder of sem.
func (e *Engine) AddHolder(sem *Sem) {
	e.AddHolderTCB(e.scheduler.CurrentTask(), sem)
}

// BoostPriority raises the priority of every holder of sem that runs below
// the currently executing task, which is about to block waiting for a
// count.
func (e *Engine) BoostPriority(sem *Sem) {
	rtcb := e.scheduler.CurrentTask()

	e.forEachHolder(sem, func(pholder *holder, sem *Sem) int {
		e.boostHolderPrio(pholder, sem, rtcb)
		return 0
	})
}

// boostHolderPrio applies the boost rule to one holder on behalf of the
// waiter rtcb.
func (e *Engine) boostHolderPrio(pholder *holder, sem *Sem, rtcb *sched.TCB) {
	htcb := pholder.htcb

	// The holder may have exited without releasing its counts.  There is no
	// real recovery: we do not know what the program intends.  Perhaps its
	// plan is to kill a thread and then destroy the semaphore.
	if !e.scheduler.VerifyTCB(htcb) {
		logging.Warn(e.logger).Log(
			logging.MessageKey(), "stale holder handle, counts lost",
			"pid", htcb.Pid,
		)

		e.measures.StaleHolders.Add(1.0)
		e.freeHolder(sem, pholder)
		return
	}

	if e.nested {
		// Record the dependency whenever the waiter exceeds the holder's
		// base priority, even if some other boost already raised the
		// holder above the waiter.
		if rtcb.SchedPriority > htcb.BasePriority {
			if !htcb.AddBoost(sem, rtcb.SchedPriority) {
				logging.Error(e.logger).Log(
					logging.MessageKey(), "out of priority boost slots",
					"pid", htcb.Pid,
				)

				e.measures.LedgerOverflows.Add(1.0)
				return
			}

			if rtcb.SchedPriority > htcb.SchedPriority {
				e.scheduler.SetPriority(htcb, rtcb.SchedPriority)
			}

			e.measures.Boosts.Add(1.0)
		}

		return
	}

	// Simple protocol: raise the holder only when the waiter exceeds its
	// current effective priority.  Repeated boosts compose monotonically
	// because the comparison uses the holder's current priority.  The
	// switch cannot happen here; the task is merely marked pending while
	// preemption stays disabled.
	if rtcb.SchedPriority > htcb.SchedPriority {
		e.scheduler.SetPriority(htcb, rtcb.SchedPriority)
		e.measures.Boosts.Add(1.0)
	}
}

// restoreHolderPrio applies the restore rule to one holder task after a
// waiter on sem departed.
func (e *Engine) restoreHolderPrio(htcb *sched.TCB, sem *Sem) {
	pholder := e.findHolder(sem, htcb)

	if !e.scheduler.VerifyTCB(htcb) {
		logging.Warn(e.logger).Log(
			logging.MessageKey(), "stale holder handle, counts lost",
			"pid", htcb.Pid,
		)

		e.measures.StaleHolders.Add(1.0)
		if pholder != nil {
			e.freeHolder(sem, pholder)
		}

		return
	}

	// Was the holder boosted?  If so, drop it back to the correct level.
	if htcb.SchedPriority == htcb.BasePriority {
		return
	}

	if e.nested {
		if pholder == nil || pholder.counts == 0 {
			// The holder no longer holds a count on this semaphore, so
			// loitering at an elevated priority cannot release anything
			// faster.  Discard every boost this semaphore contributed.
			htcb.StripBoosts(sem)
		} else {
			// Still holding: the highest-priority waiter for this
			// semaphore has just been satisfied.  Retire the highest
			// boost for this semaphore and re-evaluate.
			htcb.StripMaxBoost(sem)
		}

		if newPriority := htcb.InheritedPriority(); newPriority != htcb.SchedPriority {
			e.scheduler.SetPriority(htcb, newPriority)
			e.measures.Restores.Add(1.0)
		}

		return
	}

	// Without a ledger there is no record of alternative restore
	// priorities: drop all the way to base.  Still-pending waiters will
	// boost again.
	e.scheduler.Reprioritize(htcb, htcb.BasePriority)
	e.measures.Restores.Add(1.0)
}

// RestoreBasePriority settles holder priorities after a post on sem.  stcb
// is the task that received the posted count, nil when no waiter existed.
//
// Counts posted from an interrupt handler are handled differently from
// counts posted from a task: a task poster is itself a player in the
// inheritance scheme, while an interrupt handler injects the count without
// otherwise participating.  The execution context is interrogated here
// because the caller cannot know it; a post may arrive from a timer
// callback.
func (e *Engine) RestoreBasePriority(stcb *sched.TCB, sem *Sem) {
	if e.scheduler.InInterruptContext() {
		e.restoreBasePrioIRQ(stcb, sem)
	} else {
		e.restoreBasePrioTask(stcb, sem)
	}
}

// restoreBasePrioIRQ handles a post from interrupt context.  The task that
// received the count was the highest-priority waiter, so every holder drops
// to its next-highest pending level.
func (e *Engine) restoreBasePrioIRQ(stcb *sched.TCB, sem *Sem) {
	if stcb != nil {
		e.forEachHolder(sem, func(pholder *holder, sem *Sem) int {
			e.restoreHolderPrio(pholder.htcb, sem)
			return 0
		})

		return
	}

	// No waiter received a count, so every holder should already be at its
	// base priority.
	e.verifyNoBoosts(sem)
}

// restoreBasePrioTask handles a post from task context.  The poster is the
// currently executing task and is itself a holder.
func (e *Engine) restoreBasePrioTask(stcb *sched.TCB, sem *Sem) {
	rtcb := e.scheduler.CurrentTask()

	if stcb != nil {
		// Restoring the poster may suspend it, so settle every other
		// holder first and the poster strictly last.
		e.forEachHolder(sem, func(pholder *holder, sem *Sem) int {
			if pholder.htcb != rtcb {
				e.restoreHolderPrio(pholder.htcb, sem)
			}

			return 0
		})

		e.forEachHolder(sem, func(pholder *holder, sem *Sem) int {
			if pholder.htcb != rtcb {
				return 0
			}

			if e.prealloc == 0 {
				// With only two built-in records, release the poster's
				// record before the reprioritization can open a
				// preemption window, so a slot is available to whoever
				// runs next.
				e.findAndFreeHolder(sem, rtcb)
			}

			e.restoreHolderPrio(rtcb, sem)
			return 1
		})
	} else {
		e.verifyNoBoosts(sem)
	}

	// The poster's counts were decremented in ReleaseHolder; if none
	// remain, its record leaves the list now.
	e.findAndFreeHolder(sem, rtcb)
}

// ReleaseHolder records that the currently executing task gave one count
// back to sem.  The record itself is never removed here: the restore path
// must still observe counts == 0 to trigger the strip-all case.
func (e *Engine) ReleaseHolder(sem *Sem) {
	rtcb := e.scheduler.CurrentTask()
	if rtcb == nil {
		// Posted from an interrupt handler: the interrupted task is not a
		// participant and holds nothing to release.
		return
	}

	pholder := e.findHolder(sem, rtcb)
	if pholder != nil && pholder.counts > 0 {
		pholder.counts--
	}
}

// Canceled restores holder priorities after stcb's wait on sem was aborted
// by a signal: the waiter vanished without ever receiving a count.
func (e *Engine) Canceled(stcb *sched.TCB, sem *Sem) {
	e.forEachHolder(sem, func(pholder *holder, sem *Sem) int {
		e.restoreHolderPrio(pholder.htcb, sem)
		return 0
	})
}

// Destroy releases every holder record belonging to sem back to the pool.
// No task priority is adjusted: a semaphore may legitimately be destroyed
// while held (a driver being unlinked destroys the semaphore it holds), and
// the liveness of other recorded holders is undefined, so the records are
// simply recovered.
func (e *Engine) Destroy(sem *Sem) {
	if e.prealloc > 0 {
		if sem.hhead != nil {
			if e.debugAssertions && sem.hhead.flink != nil {
				logging.Warn(e.logger).Log(
					logging.MessageKey(), "semaphore destroyed with multiple holders",
				)
			}

			e.forEachHolder(sem, func(pholder *holder, sem *Sem) int {
				e.freeHolder(sem, pholder)
				return 0
			})
		}

		return
	}

	if e.debugAssertions && sem.slots[0].htcb != nil && sem.slots[1].htcb != nil {
		logging.Warn(e.logger).Log(
			logging.MessageKey(), "semaphore destroyed with multiple holders",
		)
	}

	sem.slots[0].htcb = nil
	sem.slots[1].htcb = nil
}
