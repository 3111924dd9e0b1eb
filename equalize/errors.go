package equalize

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches invalid run configurations.
	ErrConfiguration = errors.New("configuration error")
	// ErrData matches pixel buffers inconsistent with their declared shape.
	ErrData = errors.New("data error")
)

// ConfigError describes a rejected configuration option.
type ConfigError struct {
	Field      string
	Value      string
	Reason     string
	Suggestion string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// Is matches ErrConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// DataError reports an unusable pixel buffer.
type DataError struct {
	Err error
}

func (e *DataError) Error() string {
	return "invalid pixel buffer: " + e.Err.Error()
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Is matches ErrData.
func (e *DataError) Is(target error) bool {
	return target == ErrData
}

// StageError wraps the failure of one pipeline stage. Use errors.As to reach
// the underlying *device.Error and its status code.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %v: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
