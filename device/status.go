package device

import "fmt"

// Status is a device-reported status code. Values follow the OpenCL numbering
// so that diagnostics read the same as on a GPU runtime.
type Status int

const (
	StatusSuccess                   Status = 0
	StatusDeviceNotFound            Status = -1
	StatusOutOfResources            Status = -5
	StatusProfilingInfoNotAvailable Status = -7
	StatusBuildProgramFailure       Status = -11
	StatusExecStatusErrorForEvents  Status = -14
	StatusInvalidValue              Status = -30
	StatusInvalidPlatform           Status = -32
	StatusInvalidDevice             Status = -33
	StatusInvalidContext            Status = -34
	StatusInvalidCommandQueue       Status = -36
	StatusInvalidProgramExecutable  Status = -45
	StatusInvalidKernel             Status = -48
	StatusInvalidKernelArgs         Status = -52
	StatusInvalidWorkGroupSize      Status = -54
	StatusInvalidBufferSize         Status = -61
	StatusInvalidGlobalWorkSize     Status = -63
	StatusKernelFailed              Status = -9999
)

var statusNames = map[Status]string{
	StatusSuccess:                   "CL_SUCCESS",
	StatusDeviceNotFound:            "CL_DEVICE_NOT_FOUND",
	StatusOutOfResources:            "CL_OUT_OF_RESOURCES",
	StatusProfilingInfoNotAvailable: "CL_PROFILING_INFO_NOT_AVAILABLE",
	StatusBuildProgramFailure:       "CL_BUILD_PROGRAM_FAILURE",
	StatusExecStatusErrorForEvents:  "CL_EXEC_STATUS_ERROR_FOR_EVENTS_IN_WAIT_LIST",
	StatusInvalidValue:              "CL_INVALID_VALUE",
	StatusInvalidPlatform:           "CL_INVALID_PLATFORM",
	StatusInvalidDevice:             "CL_INVALID_DEVICE",
	StatusInvalidContext:            "CL_INVALID_CONTEXT",
	StatusInvalidCommandQueue:       "CL_INVALID_COMMAND_QUEUE",
	StatusInvalidProgramExecutable:  "CL_INVALID_PROGRAM_EXECUTABLE",
	StatusInvalidKernel:             "CL_INVALID_KERNEL",
	StatusInvalidKernelArgs:         "CL_INVALID_KERNEL_ARGS",
	StatusInvalidWorkGroupSize:      "CL_INVALID_WORK_GROUP_SIZE",
	StatusInvalidBufferSize:         "CL_INVALID_BUFFER_SIZE",
	StatusInvalidGlobalWorkSize:     "CL_INVALID_GLOBAL_WORK_SIZE",
	StatusKernelFailed:              "KERNEL_FAILED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_STATUS(%d)", int(s))
}
