package apperrors

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0 // Indicates successful execution.
	ExitErrorGeneric  = 1 // Indicates a generic error.
	ExitErrorMismatch = 3 // Indicates a result mismatch between runs (e.g. --verify).
	ExitErrorConfig   = 4 // Indicates a configuration or usage error.
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents a violated precondition on the inputs of a
// coordinated run (inverted range, non-positive worker count, ...). It is
// always returned before any worker is started.
type ValidationError struct {
	// Field is the name of the input that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for field with a formatted message.
func NewValidationError(field, format string, a ...any) error {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, a...)}
}

// WorkerError reports that a worker aborted instead of completing its
// assignment. A valid assignment never fails, so this always indicates a bug.
type WorkerError struct {
	// Worker is the index of the failing worker.
	Worker int
	// Cause is the recovered panic value or error.
	Cause error
}

// Error returns a formatted message naming the failing worker.
func (e WorkerError) Error() string {
	return fmt.Sprintf("worker %d failed: %v", e.Worker, e.Cause)
}

// Unwrap returns the underlying cause.
func (e WorkerError) Unwrap() error { return e.Cause }

// MismatchError reports that two runs over the same input disagreed.
type MismatchError struct {
	// Expected is the reference value (usually the sequential baseline).
	Expected string
	// Got is the value produced by the run under test.
	Got string
	// Run names the disagreeing run.
	Run string
}

// Error returns a formatted message describing the mismatch.
func (e MismatchError) Error() string {
	return fmt.Sprintf("result mismatch in %s: expected %s, got %s", e.Run, e.Expected, e.Got)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// ColorProvider supplies the terminal escape sequences used when reporting
// errors. It keeps this package free of a dependency on the ui package.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// ExitCodeFor maps an error to the process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		cfgErr      ConfigError
		validErr    ValidationError
		mismatchErr MismatchError
	)
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &validErr):
		return ExitErrorConfig
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	default:
		return ExitErrorGeneric
	}
}

// HandleRunError prints a user-facing description of err and returns the
// matching exit code. A nil err returns ExitSuccess without printing.
//
// Parameters:
//   - err: The error returned by a run.
//   - duration: How long the run took before failing (0 if unknown).
//   - out: Destination for the message.
//   - colors: Escape sequences for highlighting.
//
// Returns:
//   - int: The exit code associated with the error.
func HandleRunError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	code := ExitCodeFor(err)
	switch code {
	case ExitErrorConfig:
		fmt.Fprintf(out, "%sInvalid input:%s %v\n", colors.Yellow(), colors.Reset(), err)
	case ExitErrorMismatch:
		fmt.Fprintf(out, "%sCRITICAL:%s %v\n", colors.Red(), colors.Reset(), err)
	default:
		if duration > 0 {
			fmt.Fprintf(out, "%sRun failed after %s:%s %v\n", colors.Red(), duration, colors.Reset(), err)
		} else {
			fmt.Fprintf(out, "%sRun failed:%s %v\n", colors.Red(), colors.Reset(), err)
		}
	}
	return code
}
