package executor

import (
	"strings"

	"github.com/grovekit/grove/internal/errors"
	"github.com/grovekit/grove/internal/ui"
)

// Outcome is the per-item result produced by a Task. A successful outcome
// has a nil Err; Summary optionally carries a human-readable fragment for
// the final report. An outcome may carry both a summary and an error when
// an item made partial progress before failing.
type Outcome struct {
	Summary string
	Err     error
}

// Empty returns an outcome with no error and no summary.
func Empty() Outcome {
	return Outcome{}
}

// FromError returns a failed outcome.
func FromError(err error) Outcome {
	return Outcome{Err: err}
}

// FromSummary returns a successful outcome carrying a summary fragment.
func FromSummary(summary string) Outcome {
	return Outcome{Summary: summary}
}

// FromLines returns a successful outcome whose summary joins the given
// lines. An empty slice yields an empty outcome.
func FromLines(lines []string) Outcome {
	if len(lines) == 0 {
		return Empty()
	}
	return Outcome{Summary: strings.Join(lines, "\n")}
}

// Success reports whether the outcome carries no error.
func (o Outcome) Success() bool {
	return o.Err == nil
}

// Result pairs an item description with its outcome. Executors return
// results as an ordered slice: input order for the sequential executor,
// completion order for the parallel one.
type Result struct {
	Desc    string
	Outcome Outcome
}

// ItemError pairs an item description with its error, preserving the
// order in which failures were collected.
type ItemError struct {
	Item string
	Err  error
}

// Collection aggregates a batch of results into the summaries of the
// successful items and the errors of the failed ones.
type Collection struct {
	Summaries []string
	Errors    []ItemError
}

// Collect partitions results in a single traversal: every non-empty
// summary is appended to Summaries, every non-nil error to Errors. An
// outcome contributing both appears in both.
func Collect(results []Result) Collection {
	var c Collection
	for _, r := range results {
		if r.Outcome.Summary != "" {
			c.Summaries = append(c.Summaries, r.Outcome.Summary)
		}
		if r.Outcome.Err != nil {
			c.Errors = append(c.Errors, ItemError{Item: r.Desc, Err: r.Outcome.Err})
		}
	}
	return c
}

// HandleResult reports the collection to the terminal: the summaries
// first (under summaryTitle when given), then the error block headed by
// errorMessage with one red bullet per failed item. It returns
// ErrExecutorFailed when any error was collected, nil otherwise.
func (c Collection) HandleResult(out *ui.Printer, errorMessage, summaryTitle string) error {
	if len(c.Summaries) > 0 {
		if summaryTitle != "" {
			out.Info(summaryTitle)
		}
		for _, summary := range c.Summaries {
			out.Info(summary)
		}
	}
	if len(c.Errors) > 0 {
		out.Error(errorMessage)
		for _, itemErr := range c.Errors {
			out.ErrorItem(itemErr.Item, itemErr.Err)
		}
		return errors.ErrExecutorFailed
	}
	return nil
}
