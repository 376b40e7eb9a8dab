package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the autobump CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution, including runs
	// that produced no new release
	ExitSuccess = 0

	// ExitFailure indicates the computation or its reporting failed
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = 3
)

// ExitError carries a specific process exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that makes the process exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
