package sched

// Priority is a task scheduling priority.  Larger values are more urgent.
type Priority uint8

// TCB is a handle to a task control block.  BasePriority never changes while
// the task lives.  SchedPriority is the effective priority used by the
// scheduler's run queues and is written only by the scheduler, never directly
// by holders of a TCB.
type TCB struct {
	// Pid identifies the task.
	Pid int

	// Name is an optional human-readable task name used in log output.
	Name string

	// BasePriority is the statically assigned priority of the task.
	BasePriority Priority

	// SchedPriority is the effective priority.  It equals BasePriority plus
	// any active inheritance boosts.
	SchedPriority Priority

	nboosts int
	boosts  []Boost
}

// NewTCB creates a task handle with the given base priority.  The effective
// priority starts at the base.  nestSlots is the boost ledger capacity; zero
// disables the ledger, which selects the simple (non-nested) inheritance
// protocol for this task.
//
// The ledger backing storage is allocated here, once, so that no boost or
// restore operation ever allocates.
func NewTCB(pid int, name string, base Priority, nestSlots int) *TCB {
	t := &TCB{
		Pid:           pid,
		Name:          name,
		BasePriority:  base,
		SchedPriority: base,
	}

	if nestSlots > 0 {
		t.boosts = make([]Boost, nestSlots)
	}

	return t
}

// Interface represents the scheduler capabilities required by priority
// inheritance.  Implementations are expected to be driven with preemption
// inhibited: either from interrupt context or under the scheduler's
// critical-section primitive.
type Interface interface {
	// VerifyTCB reports whether the task still exists.  A TCB held as a
	// lookup key may outlive its task; every holder of a stale handle must
	// check here before dereferencing.
	VerifyTCB(*TCB) bool

	// SetPriority sets the effective priority of a task.  The scheduler may
	// mark the task pending-preemption; the actual context switch is
	// deferred until the caller releases preemption.
	SetPriority(*TCB, Priority)

	// Reprioritize is the restore-side counterpart of SetPriority, used when
	// dropping a task back toward its base priority.
	Reprioritize(*TCB, Priority)

	// CurrentTask returns the task executing on this CPU.
	CurrentTask() *TCB

	// InInterruptContext reports whether the caller is running in interrupt
	// context rather than on a task.
	InInterruptContext() bool
}
