package executor

import (
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/grovekit/grove/internal/ui"
)

// parallelExecutor runs the task with numJobs workers. Results are
// collected in completion order. Terminal writes are serialized by the
// output lock, held only across formatting and writing, never across
// Task.Process.
type parallelExecutor[T any] struct {
	task    Task[T]
	numJobs int
	out     *ui.Printer

	outputMu  sync.Mutex
	doneCount atomic.Int64
}

func (e *parallelExecutor[T]) process(items []T) []Result {
	if len(items) == 0 {
		return nil
	}

	count := len(items)
	results := make([]Result, 0, count)
	var resultsMu sync.Mutex

	workers := pool.New().WithMaxGoroutines(e.numJobs)
	for index, item := range items {
		workers.Go(func() {
			outcome := e.processItem(index, count, item)
			resultsMu.Lock()
			results = append(results, Result{Desc: e.task.DescribeItem(item), Outcome: outcome})
			resultsMu.Unlock()
		})
	}
	workers.Wait()

	// Leave the caller's next output on a clean line.
	e.out.EraseLine()
	return results
}

func (e *parallelExecutor[T]) processItem(index, count int, item T) Outcome {
	if start := e.task.DescribeStart(item); start != "" {
		e.outputMu.Lock()
		e.out.Progress(index, count, start)
		e.outputMu.Unlock()
	}

	// The expensive step runs outside the output lock.
	outcome := e.task.Process(index, count, item)

	// The counter advances under the output lock so the completion that
	// observes done == count is also the last one to write: the trailing
	// newline always lands after every end line.
	e.outputMu.Lock()
	done := int(e.doneCount.Add(1))
	if end := e.task.DescribeEnd(item); end != "" {
		// The start line reports dispatch order; the end line reports the
		// number of completions so far. The indices are informational
		// only and deliberately differ.
		e.out.Progress(done-1, count, end)
	}
	if done == count {
		e.out.NewLine()
	}
	e.outputMu.Unlock()

	return outcome
}
