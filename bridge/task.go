package bridge

import "github.com/h2gis/h2gis-go/engine"

// task is one unit of work plus its one-shot result slot. The submitter
// owns it until enqueue; the queue owns it until execution; the result
// channel is shared between submitter and worker for the task's lifetime
// only.
type task struct {
	fn   func(engine.Caller) (any, error)
	done chan taskResult
}

type taskResult struct {
	value    any
	err      error
	panicVal any
	panicked bool
}

// run executes the task on the worker and fulfills the result slot. A
// panic in the closure is captured here and re-raised on the submitting
// goroutine, never on the worker.
func (t *task) run(c engine.Caller) {
	defer func() {
		if r := recover(); r != nil {
			t.done <- taskResult{panicVal: r, panicked: true}
		}
	}()
	v, err := t.fn(c)
	t.done <- taskResult{value: v, err: err}
}
