/*
Package semaphore provides a counting semaphore with priority inheritance
for a cooperatively scheduled task domain.

This is not a goroutine synchronization primitive.  Tasks are sched.TCB
handles, blocking is expressed to the caller rather than performed, and all
methods assume the caller holds the scheduler critical section.  The package
exists to drive the semholder engine through the exact event protocol of the
kernel wait/post paths, and to serve as the integration surface for tests
and simulations.
*/
package semaphore
