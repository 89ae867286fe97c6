package todo

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit integration.
// These must remain as untyped string constants for statekit.StateID
// compatibility. Values are kept in sync with Status constants in status.go.
const (
	StatePending    = "pending"
	StateInProgress = "in_progress"
	StateBlocked    = "blocked"
	StateCompleted  = "completed"
)

// init validates at startup that FSM state constants match Status values.
func init() {
	stateMap := map[string]Status{
		StatePending:    StatusPending,
		StateInProgress: StatusInProgress,
		StateBlocked:    StatusBlocked,
		StateCompleted:  StatusCompleted,
	}

	for fsmState, status := range stateMap {
		if fsmState != string(status) {
			panic(fmt.Sprintf("FSM state %q does not match Status %q - constants are out of sync", fsmState, status))
		}
	}
}

// MachineContext carries state data.
type MachineContext struct {
	TodoID string
	Guard  func(todoID string, event string) bool
}

// StateMachine defines the valid transitions and rules for a todo item.
// The "start" event is guarded: it is refused while any dependency of the
// todo is not completed.
type StateMachine struct {
	interpreter *statekit.Interpreter[MachineContext]
}

// NewStateMachine builds a todo state machine starting at initialState.
// The guard decides whether a given event may fire for the todo; the
// dependency rule from the blocker classifier is the usual guard.
func NewStateMachine(initialState string, todoID string, guard func(string, string) bool) (*StateMachine, error) {
	if guard == nil {
		guard = func(string, string) bool { return true }
	}

	builder := statekit.NewMachine[MachineContext]("todo-machine").
		WithInitial(statekit.StateID(initialState)).
		WithContext(MachineContext{
			TodoID: todoID,
			Guard:  guard,
		}).
		WithGuard("dependencyGuard", func(ctx MachineContext, e statekit.Event) bool {
			return ctx.Guard(ctx.TodoID, string(e.Type))
		})

	builder.State(StatePending).
		On("start").Target(StateInProgress).Guard("dependencyGuard").
		On("block").Target(StateBlocked).
		Done()

	builder.State(StateInProgress).
		On("complete").Target(StateCompleted).
		On("block").Target(StateBlocked).
		On("stop").Target(StatePending).
		Done()

	builder.State(StateBlocked).
		On("unblock").Target(StateInProgress).Guard("dependencyGuard").
		Done()

	// Completed is terminal.
	builder.State(StateCompleted).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &StateMachine{interpreter: interpreter}, nil
}

// Transition attempts to move the todo to a new state.
func (sm *StateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := sm.Current()

	if before != after {
		return nil
	}

	// If state didn't change the event was either invalid for the state or
	// refused by the guard. statekit keeps the state unchanged in both cases.
	return fmt.Errorf("the action '%s' is not allowed while the todo is in the '%s' state", event, before)
}

func (sm *StateMachine) Current() string {
	return string(sm.interpreter.State().Value)
}

// CurrentStatus returns the current state as a Status value object.
func (sm *StateMachine) CurrentStatus() Status {
	return Status(sm.Current())
}

// CanTransition checks if the given event is valid for the current state.
func (sm *StateMachine) CanTransition(event string) bool {
	return sm.CurrentStatus().CanTransitionWith(event)
}

// ValidEvents returns the valid events for the current state.
func (sm *StateMachine) ValidEvents() []string {
	return sm.CurrentStatus().ValidEvents()
}

// IsFinal returns true if the current state is a final state.
func (sm *StateMachine) IsFinal() bool {
	return sm.CurrentStatus().IsFinal()
}
