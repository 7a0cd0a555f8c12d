package semholder

// Protocol selects how a semaphore participates in priority inheritance.
type Protocol int

const (
	// ProtocolInherit enables priority inheritance bookkeeping.  This is
	// the default for a new Sem.
	ProtocolInherit Protocol = iota

	// ProtocolNone suppresses all holder bookkeeping for the semaphore.
	// Use this for semaphores employed for signaling rather than locking,
	// where the notion of a "holder" is meaningless.
	ProtocolNone
)

// Sem is the priority inheritance state carried by one semaphore.  The
// semaphore layer embeds a Sem (or holds a pointer to one) and passes it to
// the Engine entry points at the four bookkeeping events.
//
// The zero value is ready for use with inheritance enabled.
type Sem struct {
	// hhead threads the holder records for this semaphore when the engine
	// runs in freelist mode.
	hhead *holder

	// slots are the two built-in holder records used in embedded mode.
	// Two slots optimize for the common case where a semaphore is used as
	// a mutex: one holder, plus one in flight during handoff.
	slots [2]holder

	protocol Protocol
}

// NewSem returns a semaphore PI state with inheritance enabled and no
// holders.
func NewSem() *Sem {
	return new(Sem)
}

// SetProtocol changes the semaphore's inheritance protocol.  It must be
// called before the semaphore is acquired for the first time; switching
// protocols with live holders is not supported.
func (s *Sem) SetProtocol(p Protocol) {
	s.protocol = p
}

// InheritanceDisabled reports whether holder bookkeeping is suppressed.
func (s *Sem) InheritanceDisabled() bool {
	return s.protocol == ProtocolNone
}
