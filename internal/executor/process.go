package executor

import (
	"github.com/grovekit/grove/internal/ui"
)

// ProcessItems runs the task over the items and aggregates the outcomes.
// When numJobs is positive the parallel executor drives the task with
// that many workers; otherwise items run sequentially in input order.
// The task's mode is set before the first Process call and not mutated
// afterwards.
func ProcessItems[T any](items []T, task Task[T], numJobs int, out *ui.Printer) Collection {
	var results []Result
	if numJobs > 0 {
		results = ProcessItemsParallel(items, task, numJobs, out)
	} else {
		results = ProcessItemsSequential(items, task)
	}
	return Collect(results)
}

// ProcessItemsSequential runs the task over the items one at a time.
func ProcessItemsSequential[T any](items []T, task Task[T]) []Result {
	task.SetMode(ModeSequential)
	e := &sequentialExecutor[T]{task: task}
	return e.process(items)
}

// ProcessItemsParallel runs the task over the items with numJobs workers.
func ProcessItemsParallel[T any](items []T, task Task[T], numJobs int, out *ui.Printer) []Result {
	task.SetMode(ModeParallel)
	e := &parallelExecutor[T]{task: task, numJobs: numJobs, out: out}
	return e.process(items)
}
