package semholder

import (
	"fmt"

	"github.com/osprey-rtos/rtcommon/logging"
)

// verifyNoBoosts checks, after a post that satisfied no waiter, that every
// remaining holder is back at its base priority with an empty ledger.  The
// check is gated behind both DebugAssertions and VerifyHolders: it has been
// observed to fire on workloads that interleave semaphore teardown with
// task exit, and it is not yet settled whether those reports are real bugs.
func (e *Engine) verifyNoBoosts(sem *Sem) {
	if !e.verifyHolders {
		return
	}

	e.forEachHolder(sem, func(pholder *holder, sem *Sem) int {
		htcb := pholder.htcb

		if htcb.SchedPriority != htcb.BasePriority {
			logging.Error(e.logger).Log(
				logging.MessageKey(), "holder still boosted with no waiters",
				"pid", htcb.Pid,
				"sched", htcb.SchedPriority,
				"base", htcb.BasePriority,
			)
		}

		if e.nested && htcb.BoostCount() != 0 {
			logging.Error(e.logger).Log(
				logging.MessageKey(), "holder ledger not empty with no waiters",
				"pid", htcb.Pid,
				"entries", htcb.BoostCount(),
			)
		}

		return 0
	})
}

// EnumHolders logs one line per holder record of sem, rendering the record
// address, next link, holder task, and held counts.  It is informational
// only and does nothing unless PHDebug is set.
func (e *Engine) EnumHolders(sem *Sem) {
	if !e.phDebug {
		return
	}

	e.forEachHolder(sem, func(pholder *holder, sem *Sem) int {
		logging.Info(e.logger).Log(
			logging.MessageKey(), "holder",
			"record", fmt.Sprintf("%p", pholder),
			"next", fmt.Sprintf("%p", pholder.flink),
			"pid", pholder.htcb.Pid,
			"counts", pholder.counts,
		)

		return 0
	})
}
