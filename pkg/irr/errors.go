package irr

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind int

const (
	KindExternalToolFailure ErrorKind = iota + 1
	KindMalformedOutput
	KindInvalidRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindExternalToolFailure:
		return "external-tool-failure"
	case KindMalformedOutput:
		return "malformed-output"
	case KindInvalidRequest:
		return "invalid-request"
	}
	return "unknown"
}

type Error interface {
	Kind() ErrorKind
	Error() string
}

// ExternalToolFailureError is returned when the tool exited non-zero or could
// not be run at all. In the latter case ExitCode is -1 and Err holds the cause.
type ExternalToolFailureError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e ExternalToolFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s could not be executed: %v", e.Tool, e.Err)
	}
	msg := fmt.Sprintf("%s exit code is %d", e.Tool, e.ExitCode)
	if strings.TrimSpace(e.Stderr) != "" {
		msg += ", stderr: " + e.Stderr
	}
	return msg
}
func (e ExternalToolFailureError) Kind() ErrorKind {
	return KindExternalToolFailure
}
func (e ExternalToolFailureError) Unwrap() error {
	return e.Err
}

// MalformedOutputError is returned when the tool succeeded but its output
// could not be decoded into a result list.
type MalformedOutputError struct {
	Tool string
	Err  error
}

func (e MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed output from %s: %v", e.Tool, e.Err)
}
func (e MalformedOutputError) Kind() ErrorKind {
	return KindMalformedOutput
}
func (e MalformedOutputError) Unwrap() error {
	return e.Err
}

type InvalidRequestError struct {
	Reason string
}

func (e InvalidRequestError) Error() string {
	return "invalid resolution request: " + e.Reason
}
func (e InvalidRequestError) Kind() ErrorKind {
	return KindInvalidRequest
}

// KindOf returns the kind of err, or 0 if it did not originate here.
func KindOf(err error) ErrorKind {
	var e Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return 0
}

func IsExternalToolFailure(err error) bool {
	return KindOf(err) == KindExternalToolFailure
}

func IsMalformedOutput(err error) bool {
	return KindOf(err) == KindMalformedOutput
}

func IsInvalidRequest(err error) bool {
	return KindOf(err) == KindInvalidRequest
}
