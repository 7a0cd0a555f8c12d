package workq

import (
	"sync"

	"github.com/go-kit/kit/log"

	"github.com/osprey-rtos/rtcommon/logging"
	"github.com/osprey-rtos/rtcommon/sched"
)

// Options stores the configuration of a Pool.
type Options struct {
	// Ceiling caps the priority workers can be boosted to.  Zero means no
	// ceiling.
	Ceiling sched.Priority `json:"ceiling"`

	// NestedBoosts selects the ledger-based protocol, matching the
	// semholder engine configuration of the enclosing system.
	NestedBoosts bool `json:"nestedBoosts"`

	// Lock, when non-nil, is acquired around every boost and restore pass.
	// Supply the scheduler's critical-section primitive here.  When nil,
	// the caller is assumed to already hold the critical section.
	Lock sync.Locker `json:"-"`

	// Logger is the go-kit logger for error output.  If unset,
	// logging.DefaultLogger() is used.
	Logger log.Logger `json:"-"`
}

func (o *Options) ceiling() sched.Priority {
	if o != nil {
		return o.Ceiling
	}

	return 0
}

func (o *Options) nestedBoosts() bool {
	return o != nil && o.NestedBoosts
}

func (o *Options) lock() sync.Locker {
	if o != nil && o.Lock != nil {
		return o.Lock
	}

	return nil
}

func (o *Options) logger() log.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}

	return logging.DefaultLogger()
}

// Pool tracks the worker tasks of one work queue.  The Pool value itself is
// the ledger source key for every boost it applies.
type Pool struct {
	scheduler sched.Interface
	logger    log.Logger
	workers   []*sched.TCB
	ceiling   sched.Priority
	nested    bool
	lock      sync.Locker
}

// New constructs a Pool over the given worker tasks.  The options object
// may be nil.  New panics if scheduler is nil or no workers are supplied.
func New(scheduler sched.Interface, workers []*sched.TCB, o *Options) *Pool {
	if scheduler == nil {
		panic("workq: a scheduler is required")
	}

	if len(workers) == 0 {
		panic("workq: at least one worker is required")
	}

	return &Pool{
		scheduler: scheduler,
		logger:    o.logger(),
		workers:   append([]*sched.TCB{}, workers...),
		ceiling:   o.ceiling(),
		nested:    o.nestedBoosts(),
		lock:      o.lock(),
	}
}

// BoostPriority assures that every worker runs at least at reqprio, clipped
// to the pool ceiling.  Call just before queueing work.
func (p *Pool) BoostPriority(reqprio sched.Priority) {
	reqprio = p.clip(reqprio)

	if p.lock != nil {
		p.lock.Lock()
		defer p.lock.Unlock()
	}

	for _, wtcb := range p.workers {
		p.boostWorker(wtcb, reqprio)
	}
}

// RestorePriority undoes one previous BoostPriority, typically from worker
// logic when the queued work completes.  In nested mode it retires the
// highest pool-keyed ledger entry of each worker; in simple mode each worker
// drops to its base priority.  reqprio does not select which boost is undone.
func (p *Pool) RestorePriority(reqprio sched.Priority) {
	reqprio = p.clip(reqprio)

	if p.lock != nil {
		p.lock.Lock()
		defer p.lock.Unlock()
	}

	for _, wtcb := range p.workers {
		p.restoreWorker(wtcb, reqprio)
	}
}

func (p *Pool) clip(reqprio sched.Priority) sched.Priority {
	if p.ceiling > 0 && reqprio > p.ceiling {
		return p.ceiling
	}

	return reqprio
}

func (p *Pool) boostWorker(wtcb *sched.TCB, reqprio sched.Priority) {
	if !p.scheduler.VerifyTCB(wtcb) {
		logging.Error(p.logger).Log(
			logging.MessageKey(), "work queue worker has exited",
			"pid", wtcb.Pid,
		)

		return
	}

	if p.nested {
		// Record the dependency against the worker's base priority, even
		// when an existing boost already has it running higher.
		if reqprio > wtcb.BasePriority {
			if !wtcb.AddBoost(p, reqprio) {
				logging.Error(p.logger).Log(
					logging.MessageKey(), "out of priority boost slots",
					"pid", wtcb.Pid,
				)

				return
			}

			if reqprio > wtcb.SchedPriority {
				p.scheduler.SetPriority(wtcb, reqprio)
			}
		}

		return
	}

	if reqprio > wtcb.SchedPriority {
		p.scheduler.SetPriority(wtcb, reqprio)
	}
}

func (p *Pool) restoreWorker(wtcb *sched.TCB, reqprio sched.Priority) {
	if !p.scheduler.VerifyTCB(wtcb) {
		return
	}

	if wtcb.SchedPriority == wtcb.BasePriority {
		return
	}

	if p.nested {
		// The priority is supposed to return to what it was before the
		// matching boost: retire the highest pool-keyed ledger entry and
		// re-evaluate against whatever boosts remain.
		wtcb.StripMaxBoost(p)
		if newPriority := wtcb.InheritedPriority(); newPriority != wtcb.SchedPriority {
			p.scheduler.SetPriority(wtcb, newPriority)
		}

		return
	}

	p.scheduler.Reprioritize(wtcb, wtcb.BasePriority)
}
