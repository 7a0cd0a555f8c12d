package semholder

import (
	"github.com/go-kit/kit/log"
	"github.com/spf13/viper"

	"github.com/osprey-rtos/rtcommon/logging"
)

const (
	// SemholderKey is the Viper subkey under which engine configuration
	// should be stored.  FromViper *does not* assume this key.
	SemholderKey = "semholder"
)

// Options stores the configuration of an Engine.  These values correspond to
// what would be compile-time configuration on a small device: they are fixed
// at New and never consulted as runtime switches afterwards.
type Options struct {
	// PreallocHolders is the capacity of the engine's holder free list.
	// When positive, holder records are drawn from a single pool shared by
	// every semaphore.  When zero, each semaphore carries exactly two
	// built-in holder records and no global pool exists.
	PreallocHolders int `json:"preallocHolders"`

	// NestedBoosts selects the nested inheritance protocol when positive:
	// each task carries a bounded ledger of active boosts, enabling precise
	// restoration across multiply-held semaphores.  The value is the ledger
	// capacity new tasks should be created with (see sched.NewTCB); the
	// engine itself only distinguishes zero from non-zero.
	NestedBoosts int `json:"nestedBoosts"`

	// DebugAssertions enables consistency checks that are too expensive for
	// production builds, such as warning when a semaphore is destroyed
	// with multiple live holders.
	DebugAssertions bool `json:"debugAssertions"`

	// VerifyHolders additionally verifies, after a post that woke nobody,
	// that every holder has returned to its base priority.  It is gated
	// separately from DebugAssertions because the check is known to fire
	// on workloads that interleave destruction with teardown.
	VerifyHolders bool `json:"verifyHolders"`

	// PHDebug enables the holder dump entry points.
	PHDebug bool `json:"phDebug"`

	// Logger is the go-kit logger for warn, error, and info output.  If
	// unset, logging.DefaultLogger() is used.
	Logger log.Logger `json:"-"`
}

func (o *Options) preallocHolders() int {
	if o != nil && o.PreallocHolders > 0 {
		return o.PreallocHolders
	}

	return 0
}

func (o *Options) nestedBoosts() int {
	if o != nil && o.NestedBoosts > 0 {
		return o.NestedBoosts
	}

	return 0
}

func (o *Options) debugAssertions() bool {
	return o != nil && o.DebugAssertions
}

func (o *Options) verifyHolders() bool {
	return o != nil && o.DebugAssertions && o.VerifyHolders
}

func (o *Options) phDebug() bool {
	return o != nil && o.PHDebug
}

func (o *Options) logger() log.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}

	return logging.DefaultLogger()
}

// Sub returns the standard child Viper, using SemholderKey, for this
// package.  If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	if v != nil {
		return v.Sub(SemholderKey)
	}

	return nil
}

// FromViper produces an Options from a (possibly nil) Viper instance.
// Callers should use FromViper(Sub(v)) if the standard subkey is desired.
func FromViper(v *viper.Viper) (*Options, error) {
	o := new(Options)
	if v != nil {
		if err := v.Unmarshal(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}
