package semaphore

import (
	"fmt"

	"github.com/osprey-rtos/rtcommon/sched/schedtest"
	"github.com/osprey-rtos/rtcommon/semholder"
)

func ExampleMutex() {
	var (
		kernel = schedtest.NewKernel()
		engine = semholder.New(kernel, &semholder.Options{PreallocHolders: 4})
		mutex  = Mutex(engine)

		low  = kernel.Spawn(1, "low", 10, 0)
		high = kernel.Spawn(2, "high", 30, 0)
	)

	kernel.SetCurrent(low)
	mutex.Wait(low)

	kernel.SetCurrent(high)
	mutex.Wait(high)
	fmt.Println("while high waits:", low.SchedPriority)

	kernel.SetCurrent(low)
	mutex.Post()
	fmt.Println("after the post:", low.SchedPriority)

	// Output:
	// while high waits: 30
	// after the post: 10
}
