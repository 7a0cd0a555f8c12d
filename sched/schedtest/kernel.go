package schedtest

import "github.com/osprey-rtos/rtcommon/sched"

// PriorityChange records one scheduler priority mutation observed by a Kernel.
type PriorityChange struct {
	Task     *sched.TCB
	Priority sched.Priority

	// Reprioritized is true when the change arrived through Reprioritize
	// rather than SetPriority.
	Reprioritized bool
}

// Kernel is a functioning in-memory sched.Interface for tests.  It tracks a
// set of live tasks, a current task, and an interrupt-context flag, applies
// priority changes directly to the TCB, and records every change so tests can
// assert on scheduler traffic.
//
// Kernel performs no synchronization.  Tests drive it from a single
// goroutine, mirroring the production assumption that all priority
// inheritance runs inside a critical section.
type Kernel struct {
	live      map[*sched.TCB]bool
	current   *sched.TCB
	interrupt bool

	// Changes accumulates every priority mutation in order.
	Changes []PriorityChange

	// Observer, when non-nil, is invoked after each priority mutation is
	// applied.  Tests use it to snapshot state mid-operation.
	Observer func(PriorityChange)
}

var _ sched.Interface = (*Kernel)(nil)

// NewKernel returns an empty Kernel with no live tasks.
func NewKernel() *Kernel {
	return &Kernel{
		live: make(map[*sched.TCB]bool),
	}
}

// Spawn registers a new live task with the given base priority and returns
// its TCB.  nestSlots is passed through to sched.NewTCB.
func (k *Kernel) Spawn(pid int, name string, base sched.Priority, nestSlots int) *sched.TCB {
	t := sched.NewTCB(pid, name, base, nestSlots)
	k.live[t] = true
	return t
}

// Kill marks a task dead.  The TCB remains usable as a stale lookup key.
func (k *Kernel) Kill(t *sched.TCB) {
	delete(k.live, t)
}

// SetCurrent establishes the task returned by CurrentTask.
func (k *Kernel) SetCurrent(t *sched.TCB) {
	k.current = t
}

// SetInterrupt toggles interrupt context.
func (k *Kernel) SetInterrupt(v bool) {
	k.interrupt = v
}

func (k *Kernel) VerifyTCB(t *sched.TCB) bool {
	return k.live[t]
}

func (k *Kernel) SetPriority(t *sched.TCB, p sched.Priority) {
	t.SchedPriority = p
	k.record(PriorityChange{Task: t, Priority: p})
}

func (k *Kernel) Reprioritize(t *sched.TCB, p sched.Priority) {
	t.SchedPriority = p
	k.record(PriorityChange{Task: t, Priority: p, Reprioritized: true})
}

func (k *Kernel) CurrentTask() *sched.TCB {
	return k.current
}

func (k *Kernel) InInterruptContext() bool {
	return k.interrupt
}

func (k *Kernel) record(c PriorityChange) {
	k.Changes = append(k.Changes, c)
	if k.Observer != nil {
		k.Observer(c)
	}
}
