package semholder

import (
	"testing"

	"github.com/osprey-rtos/rtcommon/sched/schedtest"
)

func benchmarkBoostRestore(b *testing.B, o *Options, nestSlots int) {
	var (
		k   = schedtest.NewKernel()
		e   = New(k, o)
		sem = NewSem()

		low  = k.Spawn(1, "low", 10, nestSlots)
		high = k.Spawn(2, "high", 30, nestSlots)
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k.SetCurrent(low)
		e.AddHolder(sem)

		k.SetCurrent(high)
		e.BoostPriority(sem)

		k.SetCurrent(low)
		e.ReleaseHolder(sem)
		e.AddHolderTCB(high, sem)
		e.RestoreBasePriority(high, sem)

		k.SetCurrent(high)
		e.ReleaseHolder(sem)
		e.RestoreBasePriority(nil, sem)

		k.Changes = k.Changes[:0]
	}
}

func BenchmarkBoostRestoreSimpleEmbedded(b *testing.B) {
	benchmarkBoostRestore(b, nil, 0)
}

func BenchmarkBoostRestoreSimpleFreelist(b *testing.B) {
	benchmarkBoostRestore(b, &Options{PreallocHolders: 16}, 0)
}

func BenchmarkBoostRestoreNested(b *testing.B) {
	benchmarkBoostRestore(b, &Options{PreallocHolders: 16, NestedBoosts: 4}, 4)
}
