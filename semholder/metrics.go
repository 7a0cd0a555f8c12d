package semholder

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/provider"
	"go.uber.org/fx"

	"github.com/osprey-rtos/rtcommon/xmetrics"
)

// Names for our metrics
const (
	PriorityBoostCounter       = "sem_priority_boosts"
	PriorityRestoreCounter     = "sem_priority_restores"
	HolderPoolExhaustedCounter = "sem_holder_pool_exhausted"
	BoostLedgerOverflowCounter = "sem_boost_ledger_overflow"
	StaleHolderCounter         = "sem_stale_holders"
)

// help messages
const (
	priorityBoostHelpMsg       = "Counter for priority boosts applied to semaphore holders on behalf of waiters"
	priorityRestoreHelpMsg     = "Counter for priority restorations applied to semaphore holders after a post or cancellation"
	holderPoolExhaustedHelpMsg = "Counter for acquisitions that proceeded without inheritance because no holder record was available"
	boostLedgerOverflowHelpMsg = "Counter for boosts dropped because a task's boost ledger was full"
	staleHolderHelpMsg         = "Counter for holder records recovered from exited tasks"
)

// Metrics returns the Metrics relevant to this package.
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name: PriorityBoostCounter,
			Type: xmetrics.CounterType,
			Help: priorityBoostHelpMsg,
		},
		{
			Name: PriorityRestoreCounter,
			Type: xmetrics.CounterType,
			Help: priorityRestoreHelpMsg,
		},
		{
			Name: HolderPoolExhaustedCounter,
			Type: xmetrics.CounterType,
			Help: holderPoolExhaustedHelpMsg,
		},
		{
			Name: BoostLedgerOverflowCounter,
			Type: xmetrics.CounterType,
			Help: boostLedgerOverflowHelpMsg,
		},
		{
			Name: StaleHolderCounter,
			Type: xmetrics.CounterType,
			Help: staleHolderHelpMsg,
		},
	}
}

// Measures describes the defined metrics that will be used by the Engine.
type Measures struct {
	Boosts          metrics.Counter
	Restores        metrics.Counter
	PoolExhaustions metrics.Counter
	LedgerOverflows metrics.Counter
	StaleHolders    metrics.Counter
}

// NewMeasures realizes the desired metrics from the given provider.  A nil
// provider yields Measures that discard every observation, which is the
// engine default.
func NewMeasures(p provider.Provider) *Measures {
	if p == nil {
		return &Measures{
			Boosts:          discard.NewCounter(),
			Restores:        discard.NewCounter(),
			PoolExhaustions: discard.NewCounter(),
			LedgerOverflows: discard.NewCounter(),
			StaleHolders:    discard.NewCounter(),
		}
	}

	return &Measures{
		Boosts:          p.NewCounter(PriorityBoostCounter),
		Restores:        p.NewCounter(PriorityRestoreCounter),
		PoolExhaustions: p.NewCounter(HolderPoolExhaustedCounter),
		LedgerOverflows: p.NewCounter(BoostLedgerOverflowCounter),
		StaleHolders:    p.NewCounter(StaleHolderCounter),
	}
}

// ProvideMetrics provides the Measures for this package as an uber/fx
// component, drawing from an xmetrics.Registry in the enclosing
// application.
func ProvideMetrics() fx.Option {
	return fx.Provide(
		func(r xmetrics.Registry) *Measures {
			return NewMeasures(r)
		},
	)
}
