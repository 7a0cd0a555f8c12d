/*
Package sched defines the task and scheduler abstractions consumed by the
priority inheritance machinery.  A TCB is an opaque task handle: packages in
this module use it only as a lookup key and must confirm liveness through
Interface.VerifyTCB before acting on it.
*/
package sched
