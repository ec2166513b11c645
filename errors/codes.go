// Package errors provides the error handling system for the butler action.
// It extends Go's standard error handling with structured error codes and
// context preservation so the entry point can report a single failure message.
package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural log output.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a requested resource does not exist, such as a
	// glob pattern that matched no files or a missing remote object.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeConflict indicates a state conflict that prevents the operation,
	// such as two files claiming the same channel.
	CodeConflict ErrorCode = "CONFLICT"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Infrastructure errors.

	// CodeNetwork indicates a network operation failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeFilesystem indicates a local filesystem operation failed.
	CodeFilesystem ErrorCode = "FILESYSTEM_ERROR"

	// Execution errors.

	// CodeExecutionFailed indicates a subprocess could not be run.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodePublishFailed indicates an upload exited unsuccessfully.
	CodePublishFailed ErrorCode = "PUBLISH_FAILED"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeNotImplemented indicates the requested functionality is not implemented.
	CodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// String returns the string representation of the ErrorCode.
func (c ErrorCode) String() string {
	return string(c)
}
