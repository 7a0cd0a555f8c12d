/*
Package semholder implements priority inheritance bookkeeping for counting
semaphores.

Whenever a high-priority task blocks on a semaphore held by a lower-priority
task, the holder's effective priority is raised to the waiter's so that
unrelated medium-priority work cannot delay the release.  When the holder
gives back its last count, or the waiter is cancelled, the holder's priority
is restored to the correct level, which may itself reflect boosts from other
semaphores the holder still holds.

The package maintains a per-semaphore list of holders and their held counts,
drawn from a fixed-capacity pool, and (in nested mode) a per-task ledger of
active boosts.  It never allocates after construction, never blocks, and
never returns an error to the semaphore layer: failures degrade to "no
inheritance for this holder" and are logged and counted.

Every entry point except the constructor and Destroy assumes it runs with
preemption inhibited: in interrupt context, or under the scheduler lock.  The
engine contains no internal locking; mutual exclusion is inherited from the
caller's critical section.
*/
package semholder
