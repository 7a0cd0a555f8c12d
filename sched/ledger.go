package sched

// Boost records one outstanding priority contribution to a task: some waiter
// with the given priority is blocked on the object identified by Source,
// which this task currently holds.  Source is an opaque key compared by
// identity; it is typically a semaphore.
type Boost struct {
	Source   any
	Priority Priority
}

// AddBoost appends an entry to the task's boost ledger.  It returns false
// without modifying the ledger when the ledger is full or disabled.  Multiple
// entries for the same source are permitted: one per accumulated waiter.
func (t *TCB) AddBoost(source any, prio Priority) bool {
	if t.nboosts >= len(t.boosts) {
		return false
	}

	t.boosts[t.nboosts] = Boost{Source: source, Priority: prio}
	t.nboosts++
	return true
}

// BoostCount returns the number of active ledger entries.
func (t *TCB) BoostCount() int {
	return t.nboosts
}

// BoostsFor returns the number of ledger entries contributed by source.
func (t *TCB) BoostsFor(source any) int {
	n := 0
	for i := 0; i < t.nboosts; i++ {
		if t.boosts[i].Source == source {
			n++
		}
	}

	return n
}

// StripBoosts removes every ledger entry contributed by source.  The ledger
// is unordered, so removal is swap-with-last.
func (t *TCB) StripBoosts(source any) {
	for i := 0; i < t.nboosts; i++ {
		if t.boosts[i].Source == source {
			t.nboosts--
			t.boosts[i] = t.boosts[t.nboosts]
			i--
		}
	}
}

// StripMaxBoost removes the single highest-priority ledger entry contributed
// by source, returning false if no entry matches.
func (t *TCB) StripMaxBoost(source any) bool {
	maxIndex := -1
	var maxPriority Priority
	for i := 0; i < t.nboosts; i++ {
		if t.boosts[i].Source == source && (maxIndex < 0 || t.boosts[i].Priority > maxPriority) {
			maxPriority = t.boosts[i].Priority
			maxIndex = i
		}
	}

	if maxIndex < 0 {
		return false
	}

	t.nboosts--
	t.boosts[maxIndex] = t.boosts[t.nboosts]
	return true
}

// InheritedPriority computes the priority the task should be running at:
// the maximum of its base priority and every active ledger entry.
func (t *TCB) InheritedPriority() Priority {
	p := t.BasePriority
	for i := 0; i < t.nboosts; i++ {
		if t.boosts[i].Priority > p {
			p = t.boosts[i].Priority
		}
	}

	return p
}
