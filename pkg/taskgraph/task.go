package taskgraph

import (
	"sync/atomic"
	"time"

	"github.com/matzehuels/iconfont/pkg/format"
)

// State is the lifecycle state of a conversion task.
type State int

const (
	Pending State = iota
	Running
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Task is the single conversion of one format within one run. A task
// settles exactly once, with either an artifact or an error, and is
// read-only afterwards.
type Task struct {
	Format format.ID

	state    atomic.Int32
	artifact []byte
	err      error
	elapsed  time.Duration
	done     chan struct{}
}

func newTask(id format.ID) *Task {
	return &Task{Format: id, done: make(chan struct{})}
}

// Done is closed when the task has settled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task settles and returns its outcome.
func (t *Task) Wait() ([]byte, error) {
	<-t.done
	return t.artifact, t.err
}

// State returns the current task state.
func (t *Task) State() State {
	return State(t.state.Load())
}

func (t *Task) start() { t.state.Store(int32(Running)) }

// Elapsed is the converter's running time; zero if it never ran.
func (t *Task) Elapsed() time.Duration {
	<-t.done
	return t.elapsed
}

func (t *Task) settle(artifact []byte, err error, elapsed time.Duration) {
	t.artifact, t.err, t.elapsed = artifact, err, elapsed
	if err != nil {
		t.artifact = nil
		t.state.Store(int32(Failed))
	} else {
		t.state.Store(int32(Succeeded))
	}
	close(t.done)
}
