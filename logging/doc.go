/*
Package logging provides go-kit logger construction for this module.  The
priority inheritance machinery runs inside scheduler critical sections, so
loggers handed to it should be cheap: the leveled helpers here decorate a
logger without locking, and filtering happens in the go-kit level filter.
*/
package logging
