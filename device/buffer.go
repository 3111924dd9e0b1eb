package device

import "unsafe"

// Element is a type a device buffer can hold.
type Element interface {
	~uint8 | ~uint32
}

// Buffer is device memory. Kernels access it through Data; the host goes
// through a Queue.
type Buffer[T Element] struct {
	ctx  *Context
	data []T
}

// NewBuffer allocates n zeroed elements on the context's device.
func NewBuffer[T Element](ctx *Context, n int) (*Buffer[T], error) {
	if ctx == nil {
		return nil, deviceError("create buffer", StatusInvalidContext, "nil context")
	}
	if n <= 0 {
		return nil, execError("create buffer", StatusInvalidBufferSize, "size %d", n)
	}
	return &Buffer[T]{ctx: ctx, data: make([]T, n)}, nil
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// Size returns the buffer size in bytes.
func (b *Buffer[T]) Size() int {
	var zero T
	return len(b.data) * int(unsafe.Sizeof(zero))
}

// Data exposes the device storage to kernel code.
func (b *Buffer[T]) Data() []T {
	return b.data
}
