package todo

import "errors"

// Domain errors for todo coordination.
var (
	// ErrTodoNotFound indicates the todo item does not exist in storage.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrDeliverableNotFound indicates the deliverable does not exist in storage.
	ErrDeliverableNotFound = errors.New("deliverable not found")

	// ErrDependenciesNotMet indicates todo dependencies are not completed.
	ErrDependenciesNotMet = errors.New("todo dependencies not met")

	// ErrInvalidTransition indicates the requested status transition is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrTerminalStatus indicates the todo is completed and accepts no further transitions.
	ErrTerminalStatus = errors.New("todo is in a terminal status")
)

// DependencyError provides details about which dependency is blocking.
type DependencyError struct {
	TodoID       string
	DependencyID string
	Status       string
}

func (e *DependencyError) Error() string {
	return "todo " + e.TodoID + " blocked by dependency " + e.DependencyID + " (status: " + e.Status + ")"
}

// Is allows errors.Is to work with DependencyError.
func (e *DependencyError) Is(target error) bool {
	return target == ErrDependenciesNotMet
}

// TransitionError provides details about an invalid transition.
type TransitionError struct {
	TodoID     string
	FromStatus string
	Event      string
}

func (e *TransitionError) Error() string {
	return "cannot apply '" + e.Event + "' to todo " + e.TodoID + " in status " + e.FromStatus
}

// Is allows errors.Is to work with TransitionError.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
