package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/cheese/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint is implemented by errors that carry a follow-up suggestion for the user.
type Hint interface {
	Hint() string
}

// Describe renders err for the terminal, appending a hint line when one of
// the wrapped errors provides it.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	msg := Format(err)
	var h Hint
	if stderrors.As(err, &h) && h.Hint() != "" {
		msg += "\n  hint: " + h.Hint()
	}
	return msg
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Describe(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
