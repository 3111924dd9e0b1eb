package device

import "sync"

const queueDepth = 64

type command struct {
	ev  *Event
	run func() error
}

// Queue is an in-order command queue. Commands execute one at a time in
// submission order; once a command fails, every later command fails with
// StatusExecStatusErrorForEvents without running.
type Queue struct {
	ctx  *Context
	cmds chan command
	done chan struct{}

	mu     sync.Mutex // guards closed and sends on cmds
	closed bool

	errMu  sync.Mutex
	failed error
}

// NewQueue creates a profiling-enabled in-order queue on ctx.
func NewQueue(ctx *Context) (*Queue, error) {
	if ctx == nil {
		return nil, deviceError("create command queue", StatusInvalidContext, "nil context")
	}
	q := &Queue{
		ctx:  ctx,
		cmds: make(chan command, queueDepth),
		done: make(chan struct{}),
	}
	go q.loop()
	return q, nil
}

func (q *Queue) loop() {
	defer close(q.done)
	for c := range q.cmds {
		c.ev.submit()
		if prev := q.failure(); prev != nil {
			c.ev.finish(execError(c.ev.op, StatusExecStatusErrorForEvents, "earlier command failed: %v", prev))
			continue
		}
		c.ev.start()
		err := c.run()
		if err != nil {
			q.setFailure(err)
		}
		c.ev.finish(err)
	}
}

func (q *Queue) failure() error {
	q.errMu.Lock()
	defer q.errMu.Unlock()
	return q.failed
}

func (q *Queue) setFailure(err error) {
	q.errMu.Lock()
	defer q.errMu.Unlock()
	if q.failed == nil {
		q.failed = err
	}
}

func (q *Queue) enqueue(op string, run func() error) (*Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, execError(op, StatusInvalidCommandQueue, "queue released")
	}
	ev := newEvent(q.ctx, op)
	q.cmds <- command{ev: ev, run: run}
	return ev, nil
}

func (q *Queue) await(ev *Event, blocking bool) (*Event, error) {
	if !blocking {
		return ev, nil
	}
	return ev, ev.Wait()
}

// EnqueueNDRangeKernel dispatches global work items in groups of local.
// It does not wait for the kernel; use the returned Event.
func (q *Queue) EnqueueNDRangeKernel(k *Kernel, global, local int) (*Event, error) {
	const op = "enqueue NDRange kernel"
	d := q.ctx.device
	switch {
	case k == nil || !k.entry.Built():
		return nil, execError(op, StatusInvalidKernel, "kernel not built")
	case global <= 0:
		return nil, execError(op, StatusInvalidGlobalWorkSize, "global size %d", global)
	case local <= 0 || local > d.MaxWorkGroupSize:
		return nil, execError(op, StatusInvalidWorkGroupSize, "local size %d, device maximum %d", local, d.MaxWorkGroupSize)
	case global%local != 0:
		return nil, execError(op, StatusInvalidWorkGroupSize, "global size %d is not a multiple of local size %d", global, local)
	case k.localWords*4 > d.LocalMemSize:
		return nil, execError(op, StatusOutOfResources, "kernel %s needs %d bytes of local memory, device has %d",
			k.Name(), k.localWords*4, d.LocalMemSize)
	}
	return q.enqueue(k.Name(), func() error {
		if err := dispatch(d, k, global, local); err != nil {
			return execError(k.Name(), StatusKernelFailed, "%v", err)
		}
		return nil
	})
}

// Finish blocks until every command enqueued so far retired. It returns the
// first command failure seen by the queue.
func (q *Queue) Finish() error {
	ev, err := q.enqueue("finish", func() error { return nil })
	if err != nil {
		return err
	}
	<-ev.Done()
	return q.failure()
}

// Release waits for pending commands and shuts the queue down. Releasing
// twice is harmless.
func (q *Queue) Release() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.cmds)
	}
	q.mu.Unlock()
	<-q.done
}

// EnqueueWriteBuffer copies src into b.
func EnqueueWriteBuffer[T Element](q *Queue, b *Buffer[T], blocking bool, src []T) (*Event, error) {
	const op = "enqueue write buffer"
	if err := checkTransfer(op, q, b, len(src)); err != nil {
		return nil, err
	}
	ev, err := q.enqueue(op, func() error {
		copy(b.data, src)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return q.await(ev, blocking)
}

// EnqueueReadBuffer copies the first len(dst) elements of b into dst.
func EnqueueReadBuffer[T Element](q *Queue, b *Buffer[T], blocking bool, dst []T) (*Event, error) {
	const op = "enqueue read buffer"
	if err := checkTransfer(op, q, b, len(dst)); err != nil {
		return nil, err
	}
	ev, err := q.enqueue(op, func() error {
		copy(dst, b.data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return q.await(ev, blocking)
}

// EnqueueFillBuffer sets every element of b to v.
func EnqueueFillBuffer[T Element](q *Queue, b *Buffer[T], v T) (*Event, error) {
	const op = "enqueue fill buffer"
	if err := checkTransfer(op, q, b, b.Len()); err != nil {
		return nil, err
	}
	return q.enqueue(op, func() error {
		for i := range b.data {
			b.data[i] = v
		}
		return nil
	})
}

func checkTransfer[T Element](op string, q *Queue, b *Buffer[T], n int) error {
	switch {
	case b == nil:
		return execError(op, StatusInvalidValue, "nil buffer")
	case b.ctx != q.ctx:
		return execError(op, StatusInvalidContext, "buffer belongs to another context")
	case n > b.Len():
		return execError(op, StatusInvalidValue, "%d elements out of bounds for buffer of %d", n, b.Len())
	}
	return nil
}
