// Package executor runs the same task over a list of items, sequentially
// or with a bounded pool of workers, collecting per-item outcomes so that
// some items can fail while the rest proceed. All failures are reported
// together at the end instead of aborting the batch on the first error.
package executor

import (
	"github.com/grovekit/grove/internal/ui"
)

// Mode selects how a task is being driven. It gates presentation: in
// parallel mode tasks must not write to the terminal from Process, so the
// progress helpers become no-ops and subprocess invocations run silently.
type Mode int

const (
	// ModeSequential drives items one at a time with verbose output.
	ModeSequential Mode = iota
	// ModeParallel drives items concurrently with progress-line output
	// owned by the executor.
	ModeParallel
)

// Task is the contract the executors drive over an item type T.
// Implementations embed Base to get the mode flag and progress helpers.
type Task[T any] interface {
	// DescribeItem returns a stable short identifier for the item, used
	// as the key of its outcome. Callers must pass items whose
	// descriptions are unique within the batch.
	DescribeItem(item T) string

	// DescribeStart returns the progress fragment shown when processing
	// of the item begins in parallel mode. Empty suppresses the update.
	DescribeStart(item T) string

	// DescribeEnd returns the progress fragment shown when processing of
	// the item completes in parallel mode. Empty suppresses the update.
	DescribeEnd(item T) string

	// Process performs the work for one item. It must not write to the
	// terminal when the task runs in parallel mode.
	Process(index, count int, item T) Outcome

	// SetMode is called once by the dispatcher before any Process call.
	SetMode(mode Mode)
}

// Base carries the execution mode and the terminal sink shared by
// concrete tasks. The mode is set once before dispatch and only read
// afterwards, so no locking is needed.
type Base struct {
	mode Mode
	out  *ui.Printer
}

// NewBase creates a Base bound to the given printer.
func NewBase(out *ui.Printer) Base {
	return Base{out: out}
}

// SetMode records how the task is being driven.
func (b *Base) SetMode(mode Mode) {
	b.mode = mode
}

// Parallel reports whether the task is being driven in parallel mode.
func (b *Base) Parallel() bool {
	return b.mode == ModeParallel
}

// Verbose reports whether subprocess output should stream to the
// terminal. This is the inverse of Parallel and exists to read naturally
// at call sites of git.Client.Run.
func (b *Base) Verbose() bool {
	return b.mode == ModeSequential
}

// Printer returns the terminal sink.
func (b *Base) Printer() *ui.Printer {
	return b.out
}

// Info prints a message line in sequential mode. No-op in parallel mode.
func (b *Base) Info(args ...string) {
	if b.Parallel() {
		return
	}
	b.out.Info(args...)
}

// Info2 prints a second-level message line in sequential mode.
func (b *Base) Info2(args ...string) {
	if b.Parallel() {
		return
	}
	b.out.Info2(args...)
}

// Info3 prints a third-level message line in sequential mode.
func (b *Base) Info3(args ...string) {
	if b.Parallel() {
		return
	}
	b.out.Info3(args...)
}

// InfoCount prints a counted message line in sequential mode.
func (b *Base) InfoCount(index, count int, args ...string) {
	if b.Parallel() {
		return
	}
	b.out.InfoCount(index, count, args...)
}
