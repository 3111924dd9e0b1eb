package device

import (
	"sync/atomic"
	"time"
)

// CommandStatus is the execution state of an enqueued command.
type CommandStatus int32

const (
	Queued CommandStatus = iota
	Submitted
	Running
	Complete
)

func (s CommandStatus) String() string {
	switch s {
	case Queued:
		return "queued"
	case Submitted:
		return "submitted"
	case Running:
		return "running"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Profiling holds command timestamps in nanoseconds on the context clock.
type Profiling struct {
	Queued int64
	Submit int64
	Start  int64
	End    int64
}

// Event tracks one enqueued command.
type Event struct {
	op     string
	ctx    *Context
	status atomic.Int32
	done   chan struct{}
	prof   Profiling
	err    error
}

func newEvent(ctx *Context, op string) *Event {
	e := &Event{op: op, ctx: ctx, done: make(chan struct{})}
	e.prof.Queued = ctx.now()
	return e
}

// Op names the command the event tracks.
func (e *Event) Op() string { return e.op }

// Wait blocks until the command retired and returns its error.
func (e *Event) Wait() error {
	<-e.done
	return e.err
}

// Done is closed when the command retired.
func (e *Event) Done() <-chan struct{} {
	return e.done
}

// Status returns the current execution state.
func (e *Event) Status() CommandStatus {
	return CommandStatus(e.status.Load())
}

// Err returns the command error once it completed.
func (e *Event) Err() error {
	select {
	case <-e.done:
		return e.err
	default:
		return nil
	}
}

// Profile returns the command timestamps. They are only available once the
// command completed successfully.
func (e *Event) Profile() (Profiling, error) {
	select {
	case <-e.done:
	default:
		return Profiling{}, execError("get profiling info", StatusProfilingInfoNotAvailable, "%s has not completed", e.op)
	}
	if e.err != nil {
		return Profiling{}, execError("get profiling info", StatusProfilingInfoNotAvailable, "%s failed", e.op)
	}
	return e.prof, nil
}

// Duration returns End-Start of a completed command.
func (e *Event) Duration() (time.Duration, error) {
	p, err := e.Profile()
	if err != nil {
		return 0, err
	}
	return time.Duration(p.End - p.Start), nil
}

func (e *Event) submit() {
	e.prof.Submit = e.ctx.now()
	e.status.Store(int32(Submitted))
}

func (e *Event) start() {
	e.prof.Start = e.ctx.now()
	e.status.Store(int32(Running))
}

func (e *Event) finish(err error) {
	e.prof.End = e.ctx.now()
	e.err = err
	e.status.Store(int32(Complete))
	close(e.done)
}
