package vksubmit

import (
	"errors"
	"fmt"
)

// Result is a raw VkResult. Drivers return it unmodified as an error, so
// callers can match a specific code with errors.Is(err, DEVICE_LOST).
type Result int32

const (
	SUCCESS                         Result = 0
	NOT_READY                       Result = 1
	TIMEOUT                         Result = 2
	INCOMPLETE                      Result = 5
	OUT_OF_HOST_MEMORY              Result = -1
	OUT_OF_DEVICE_MEMORY            Result = -2
	INITIALIZATION_FAILED           Result = -3
	DEVICE_LOST                     Result = -4
	MEMORY_MAP_FAILED               Result = -5
	FEATURE_NOT_PRESENT             Result = -8
	UNKNOWN                         Result = -13
	SURFACE_LOST                    Result = -1000000000
	SUBOPTIMAL                      Result = 1000001003
	OUT_OF_DATE                     Result = -1000001004
	VALIDATION_FAILED               Result = -1000011001
	FULL_SCREEN_EXCLUSIVE_MODE_LOST Result = -1000255000
)

var resultNames = map[Result]string{
	SUCCESS:                         "SUCCESS",
	NOT_READY:                       "NOT READY",
	TIMEOUT:                         "TIMEOUT",
	INCOMPLETE:                      "INCOMPLETE",
	OUT_OF_HOST_MEMORY:              "OUT OF HOST MEMORY",
	OUT_OF_DEVICE_MEMORY:            "OUT OF DEVICE MEMORY",
	INITIALIZATION_FAILED:           "INITIALIZATION FAILED",
	DEVICE_LOST:                     "DEVICE LOST",
	MEMORY_MAP_FAILED:               "MEMORY MAP FAILED",
	FEATURE_NOT_PRESENT:             "FEATURE NOT PRESENT",
	UNKNOWN:                         "UNKNOWN",
	SURFACE_LOST:                    "SURFACE LOST",
	SUBOPTIMAL:                      "SUBOPTIMAL",
	OUT_OF_DATE:                     "OUT OF DATE",
	VALIDATION_FAILED:               "VALIDATION FAILED",
	FULL_SCREEN_EXCLUSIVE_MODE_LOST: "FULL SCREEN EXCLUSIVE MODE LOST",
}

func (r Result) Error() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("VkResult(%d)", int32(r))
}

// IsError reports whether r is an error code. Positive codes such as
// SUBOPTIMAL are statuses, not failures.
func (r Result) IsError() bool {
	return r < 0
}

// surfaceLocal reports whether r describes the state of one presented
// surface rather than of the queue or device.
func (r Result) surfaceLocal() bool {
	return r == SUBOPTIMAL || r == OUT_OF_DATE
}

// IsDeviceLost reports whether err carries DEVICE_LOST.
func IsDeviceLost(err error) bool {
	return errors.Is(err, DEVICE_LOST)
}

// IsOutOfMemory reports whether err carries a host or device out-of-memory
// code.
func IsOutOfMemory(err error) bool {
	return errors.Is(err, OUT_OF_HOST_MEMORY) || errors.Is(err, OUT_OF_DEVICE_MEMORY)
}

// ResultOf extracts the VkResult carried by err. A nil error maps to SUCCESS,
// any other non-Result error to UNKNOWN.
func ResultOf(err error) Result {
	if err == nil {
		return SUCCESS
	}
	var r Result
	if errors.As(err, &r) {
		return r
	}
	return UNKNOWN
}
