package executor

// sequentialExecutor runs the task on all items one at a time, in input
// order, collecting each item's outcome.
type sequentialExecutor[T any] struct {
	task Task[T]
}

func (e *sequentialExecutor[T]) process(items []T) []Result {
	count := len(items)
	results := make([]Result, 0, count)
	for index, item := range items {
		desc := e.task.DescribeItem(item)
		outcome := e.task.Process(index, count, item)
		results = append(results, Result{Desc: desc, Outcome: outcome})
	}
	return results
}
