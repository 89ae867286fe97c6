package cli

import (
	"errors"
	"fmt"

	"github.com/workintel/workintel/pkg/domain/quality"
	"github.com/workintel/workintel/pkg/domain/todo"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var depErr *todo.DependencyError
	if errors.As(err, &depErr) {
		return NewCLIError(
			depErr.Error(),
			fmt.Sprintf("Complete todo '%s' first, then retry", depErr.DependencyID),
			err,
		)
	}

	var transErr *todo.TransitionError
	if errors.As(err, &transErr) {
		return NewCLIError(
			transErr.Error(),
			fmt.Sprintf("Todo '%s' is '%s', check valid transitions with 'workintel todo list'", transErr.TodoID, transErr.FromStatus),
			err,
		)
	}

	var cfgErr *quality.ConfigurationError
	if errors.As(err, &cfgErr) {
		return NewCLIError(
			cfgErr.Error(),
			"Fix the standard file and re-run 'workintel standards validate'",
			err,
		)
	}

	switch {
	case errors.Is(err, todo.ErrTodoNotFound):
		return NewCLIError("todo not found", "Run 'workintel todo list <task>' to see available todos", err)
	case errors.Is(err, todo.ErrDeliverableNotFound):
		return NewCLIError("deliverable not found", "Run 'workintel deliverable versions <id>' to inspect the lineage", err)
	case errors.Is(err, todo.ErrTerminalStatus):
		return NewCLIError("todo already completed", "Completed todos cannot transition again", err)
	}

	return err
}
