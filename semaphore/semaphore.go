package semaphore

import (
	"golang.org/x/exp/slices"

	"github.com/osprey-rtos/rtcommon/sched"
	"github.com/osprey-rtos/rtcommon/semholder"
)

// Semaphore is a counting semaphore whose holders participate in priority
// inheritance.  A negative count means tasks are waiting; its magnitude is
// the number of waiters.
type Semaphore struct {
	count     int
	pi        *semholder.Sem
	engine    *semholder.Engine
	scheduler sched.Interface

	// waiters is ordered by descending priority, FIFO within a priority.
	// Order is fixed at enqueue time.
	waiters []*sched.TCB
}

// Option configures a Semaphore at construction.
type Option func(*Semaphore)

// NoInheritance disables priority inheritance bookkeeping for this
// semaphore.  Use it for semaphores employed for signaling, where no task
// meaningfully "holds" a count.
func NoInheritance() Option {
	return func(s *Semaphore) {
		s.pi.SetProtocol(semholder.ProtocolNone)
	}
}

// New constructs a semaphore with the given initial count.  A negative
// count will result in a panic.
func New(engine *semholder.Engine, count int, o ...Option) *Semaphore {
	if count < 0 {
		panic("the count must be non-negative")
	}

	s := &Semaphore{
		count:     count,
		pi:        semholder.NewSem(),
		engine:    engine,
		scheduler: engine.Scheduler(),
	}

	for _, f := range o {
		f(s)
	}

	return s
}

// Mutex is just syntactic sugar for New(engine, 1).  The returned object is
// a binary semaphore.
func Mutex(engine *semholder.Engine) *Semaphore {
	return New(engine, 1)
}

// Wait attempts to take a count for t, which must be the currently
// executing task.  It returns true when the count was obtained and t was
// registered as a holder.  It returns false when t must block: the count
// has been reserved against t, every current holder has been boosted on
// t's behalf, and t is queued until a Post hands it the count.
func (s *Semaphore) Wait(t *sched.TCB) bool {
	s.count--
	if s.count >= 0 {
		s.engine.AddHolderTCB(t, s.pi)
		return true
	}

	s.engine.BoostPriority(s.pi)
	s.enqueue(t)
	return false
}

// TryWait takes a count for t only when one is immediately available.  No
// boosting occurs on failure.
func (s *Semaphore) TryWait(t *sched.TCB) bool {
	if s.count <= 0 {
		return false
	}

	s.count--
	s.engine.AddHolderTCB(t, s.pi)
	return true
}

// Post gives one count back.  When a task was waiting, the count goes to
// the highest-priority earliest waiter, which is registered as a holder and
// returned so the caller can resume it.  Holder priorities are then
// restored: the poster drops to the level justified by its remaining
// boosts, strictly after every other holder has been settled.
func (s *Semaphore) Post() *sched.TCB {
	s.engine.ReleaseHolder(s.pi)
	s.count++

	var stcb *sched.TCB
	if s.count <= 0 {
		stcb = s.dequeue()
		if stcb != nil {
			s.engine.AddHolderTCB(stcb, s.pi)
		}
	}

	s.engine.RestoreBasePriority(stcb, s.pi)
	return stcb
}

// Cancel aborts t's pending wait, typically because a signal woke it.  The
// reserved count is returned and every holder boosted on t's behalf is
// restored.  It reports whether t was actually waiting.
func (s *Semaphore) Cancel(t *sched.TCB) bool {
	i := slices.Index(s.waiters, t)
	if i < 0 {
		return false
	}

	s.waiters = slices.Delete(s.waiters, i, i+1)
	s.count++
	s.engine.Canceled(t, s.pi)
	return true
}

// Destroy recovers the semaphore's holder records.  No priorities are
// adjusted; the semaphore is assumed dead.
func (s *Semaphore) Destroy() {
	s.engine.Destroy(s.pi)
}

// Count returns the current semaphore count.  Negative values indicate
// waiters.
func (s *Semaphore) Count() int {
	return s.count
}

// PI exposes the semaphore's priority inheritance state for diagnostic
// entry points such as Engine.EnumHolders.
func (s *Semaphore) PI() *semholder.Sem {
	return s.pi
}

func (s *Semaphore) enqueue(t *sched.TCB) {
	i := slices.IndexFunc(s.waiters, func(w *sched.TCB) bool {
		return w.SchedPriority < t.SchedPriority
	})

	if i < 0 {
		s.waiters = append(s.waiters, t)
		return
	}

	s.waiters = slices.Insert(s.waiters, i, t)
}

func (s *Semaphore) dequeue() *sched.TCB {
	if len(s.waiters) == 0 {
		return nil
	}

	t := s.waiters[0]
	s.waiters = s.waiters[1:]
	return t
}
