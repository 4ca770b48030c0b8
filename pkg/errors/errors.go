// Package errors defines the coded errors versionwatch returns.
//
// Every failure that reaches a user carries a [Code]. The CLI turns it into
// an exit status, the HTTP API into a status code and a JSON "code" field.
// Codes group roughly as follows:
//
//	INVALID_*            bad coordinates, rules or manifests; nothing was looked up
//	CONFIG_LOAD          config file or rule set could not be read
//	METADATA_RETRIEVAL   one artifact's versions could not be fetched
//	BATCH_FAILED         a dependency or plugin batch stopped on the first failure
//	NOT_FOUND, NETWORK_ERROR, TIMEOUT, FILE_NOT_FOUND
//	INTERNAL_ERROR, UNSUPPORTED
//
// Create errors with [New] and [Wrap]; test them with [Is], which looks at
// every coded error in the chain, not only the outermost one:
//
//	err := errors.Wrap(errors.ErrCodeMetadataRetrieval, cause, "no metadata for %s", coord)
//	if errors.Is(err, errors.ErrCodeMetadataRetrieval) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidRule       Code = "INVALID_RULE"
	ErrCodeInvalidManifest   Code = "INVALID_MANIFEST"

	ErrCodeConfigLoad Code = "CONFIG_LOAD"

	ErrCodeMetadataRetrieval Code = "METADATA_RETRIEVAL"
	ErrCodeBatchFailed       Code = "BATCH_FAILED"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeTimeout      Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message" followed by the cause, if any.
func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with the given code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is like [New] but records cause, which stays reachable through
// errors.Is and errors.As from the standard library.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err, or any coded error it wraps, carries code.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error without its
// code and cause. Uncoded errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Exit statuses used by the versionwatch command.
const (
	ExitFailure  = 1
	ExitUsage    = 2
	ExitConfig   = 3
	ExitMetadata = 4
)

// ExitCode maps err to a process exit status. nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidCoordinate, ErrCodeInvalidManifest, ErrCodeFileNotFound:
		return ExitUsage
	case ErrCodeConfigLoad, ErrCodeInvalidRule, ErrCodeUnsupported:
		return ExitConfig
	case ErrCodeMetadataRetrieval, ErrCodeBatchFailed, ErrCodeNotFound, ErrCodeNetwork, ErrCodeTimeout:
		return ExitMetadata
	default:
		return ExitFailure
	}
}
