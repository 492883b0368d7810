package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/pagecut/pagecut/internal/canonicaljson"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Pagination failure (unsupported plan, bad input)
	ExitCommandError = 2 // Command error (invalid paths, config not found, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands. JSON output
// is canonical (sorted keys, NFC strings) so results diff cleanly; verbose
// diagnostics go to ErrWriter to keep stdout machine-parseable.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// SuccessJSON emits the payload as one line of canonical JSON wrapped in the
// standard {"status": "ok", "data": ...} envelope.
func (f *OutputFormatter) SuccessJSON(data map[string]any) error {
	out, err := canonicaljson.Marshal(map[string]any{
		"status": "ok",
		"data":   data,
	})
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintf(f.Writer, "%s\n", out)
	return nil
}

// ErrorOut emits an error envelope in the configured format.
func (f *OutputFormatter) ErrorOut(code, message string) error {
	if f.Format != "json" {
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
		return nil
	}
	out, err := canonicaljson.Marshal(map[string]any{
		"status": "error",
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
	if err != nil {
		return fmt.Errorf("encode error output: %w", err)
	}
	fmt.Fprintf(f.Writer, "%s\n", out)
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
