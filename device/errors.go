package device

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDevice matches failures to acquire a context, queue or program.
	ErrDevice = errors.New("device error")
	// ErrExecution matches dispatch and transfer failures.
	ErrExecution = errors.New("execution error")
)

// Kind separates acquisition failures from execution failures.
type Kind int

const (
	KindDevice Kind = iota
	KindExecution
)

// Error is a failure reported by the device runtime.
type Error struct {
	Kind Kind
	Op   string
	Code Status
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v (%d)", e.Op, e.Code, int(e.Code))
	}
	return fmt.Sprintf("%s: %v (%d): %s", e.Op, e.Code, int(e.Code), e.Msg)
}

// Is makes the error match ErrDevice or ErrExecution according to its kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrDevice:
		return e.Kind == KindDevice
	case ErrExecution:
		return e.Kind == KindExecution
	}
	return false
}

func deviceError(op string, code Status, format string, args ...interface{}) *Error {
	return &Error{Kind: KindDevice, Op: op, Code: code, Msg: fmt.Sprintf(format, args...)}
}

func execError(op string, code Status, format string, args ...interface{}) *Error {
	return &Error{Kind: KindExecution, Op: op, Code: code, Msg: fmt.Sprintf(format, args...)}
}

// BuildError is returned when a program fails to build. Log holds the
// compiler diagnostics of every failing kernel.
type BuildError struct {
	Kernels []string
	Log     string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build program: %v (%d): kernels [%s]\n%s",
		StatusBuildProgramFailure, int(StatusBuildProgramFailure),
		strings.Join(e.Kernels, ", "), e.Log)
}

// Is matches ErrDevice.
func (e *BuildError) Is(target error) bool {
	return target == ErrDevice
}

// Code returns StatusBuildProgramFailure.
func (e *BuildError) Code() Status {
	return StatusBuildProgramFailure
}
