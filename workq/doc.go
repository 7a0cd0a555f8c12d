/*
Package workq applies priority inheritance to the worker tasks of a shared
low-priority work queue.  A client about to queue work calls BoostPriority so
the workers run at least at its own priority; when the work completes, the
worker calls RestorePriority to drop back.  Boosts flow through the same
per-task ledger used by semaphore inheritance, keyed by the pool itself, so
worker boosts and semaphore boosts restore independently.
*/
package workq
