package semholder

import (
	"testing"

	"github.com/osprey-rtos/rtcommon/sched/schedtest"
	"github.com/osprey-rtos/rtcommon/xmetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func counterValue(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()

	families, err := g.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() == name {
			var total float64
			for _, m := range f.GetMetric() {
				total += m.GetCounter().GetValue()
			}

			return total
		}
	}

	return 0
}

func fqn(name string) string {
	return prometheus.BuildFQName(xmetrics.DefaultNamespace, xmetrics.DefaultSubsystem, name)
}

func testNewMeasuresNilProvider(t *testing.T) {
	var (
		assert = assert.New(t)

		m = NewMeasures(nil)
	)

	assert.NotNil(m.Boosts)
	assert.NotNil(m.Restores)
	assert.NotNil(m.PoolExhaustions)
	assert.NotNil(m.LedgerOverflows)
	assert.NotNil(m.StaleHolders)

	// discarding metrics must be usable
	m.Boosts.Add(1.0)
}

func testNewMeasuresRegistry(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	r, err := xmetrics.NewRegistry(nil, Metrics)
	require.NoError(err)

	m := NewMeasures(r)
	m.Boosts.Add(2.0)
	m.StaleHolders.Add(1.0)

	assert.Equal(2.0, counterValue(t, r, fqn(PriorityBoostCounter)))
	assert.Equal(1.0, counterValue(t, r, fqn(StaleHolderCounter)))
}

func TestNewMeasures(t *testing.T) {
	t.Run("NilProvider", testNewMeasuresNilProvider)
	t.Run("Registry", testNewMeasuresRegistry)
}

func TestProvideMetrics(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		measures *Measures
	)

	app := fxtest.New(
		t,
		fx.NopLogger,
		fx.Provide(
			func() (xmetrics.Registry, error) {
				return xmetrics.NewRegistry(nil, Metrics)
			},
		),
		ProvideMetrics(),
		fx.Populate(&measures),
	)

	require.NoError(app.Err())
	assert.NotNil(measures)
	assert.NotNil(measures.Boosts)
}

func testEngineCountsPoolExhaustion(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	r, err := xmetrics.NewRegistry(nil, Metrics)
	require.NoError(err)

	var (
		k   = schedtest.NewKernel()
		e   = New(k, &Options{PreallocHolders: 1}, WithMeasures(NewMeasures(r)))
		sem = NewSem()

		t1 = k.Spawn(1, "t1", 10, 0)
		t2 = k.Spawn(2, "t2", 10, 0)
	)

	e.AddHolderTCB(t1, sem)
	e.AddHolderTCB(t2, sem)

	assert.Equal(1.0, counterValue(t, r, fqn(HolderPoolExhaustedCounter)))
}

func testEngineCountsBoostsAndRestores(t *testing.T) {
	var (
		require = require.New(t)
		assert  = assert.New(t)
	)

	r, err := xmetrics.NewRegistry(nil, Metrics)
	require.NoError(err)

	var (
		k   = schedtest.NewKernel()
		e   = New(k, &Options{PreallocHolders: 4}, WithMeasures(NewMeasures(r)))
		sem = NewSem()

		low  = k.Spawn(1, "low", 10, 0)
		high = k.Spawn(2, "high", 30, 0)
	)

	k.SetCurrent(low)
	e.AddHolder(sem)
	k.SetCurrent(high)
	e.BoostPriority(sem)

	k.SetCurrent(low)
	e.ReleaseHolder(sem)
	e.AddHolderTCB(high, sem)
	e.RestoreBasePriority(high, sem)

	assert.Equal(1.0, counterValue(t, r, fqn(PriorityBoostCounter)))
	assert.Equal(1.0, counterValue(t, r, fqn(PriorityRestoreCounter)))
}

func TestEngineMeasures(t *testing.T) {
	t.Run("PoolExhaustion", testEngineCountsPoolExhaustion)
	t.Run("BoostsAndRestores", testEngineCountsBoostsAndRestores)
}
