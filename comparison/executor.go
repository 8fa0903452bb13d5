package comparison

import (
	"context"
	"sync"
)

// executor runs one material per task on a fixed pool of workers.
// Tasks share nothing but their slot in the result slice.
type executor struct {
	workers      int
	dispatchChan chan task
	f            func(t task)
}

type task struct {
	index    int
	material string
}

func newExecutor(workers int, f func(t task)) *executor {
	return &executor{
		workers:      workers,
		dispatchChan: make(chan task, workers),
		f:            f,
	}
}

// dispatchTask runs every material and returns when all are done.
// Tasks not yet dispatched when ctx is done are dropped.
func (e *executor) dispatchTask(ctx context.Context, materials []string) {
	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range e.dispatchChan {
				e.f(t)
			}
		}()
	}
dispatch:
	for i, name := range materials {
		select {
		case e.dispatchChan <- task{index: i, material: name}:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(e.dispatchChan)
	wg.Wait()
}
