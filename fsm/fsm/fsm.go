package fsm

import (
	"fmt"
	"strings"
	"sync"
)

// Global states shared by all machines. StateGlobalIdle is the entry state
// of a freshly created machine; fin states are derived automatically from
// the transition table (states that are never a source).
const (
	StateGlobalIdle = State("__idle")
	StateGlobalDone = State("__done")
)

type State string

func (s State) String() string {
	return string(s)
}

type Event string

func (e Event) String() string {
	return string(e)
}

func (e Event) IsEmpty() bool {
	return e == ""
}

// Response is the result of a processed event: the machine state after the
// transition plus the callback's payload, cast according to the machine's
// event->response mapping.
type Response struct {
	State State
	Data  interface{}
}

// EventDesc declares one transition of the machine.
type EventDesc struct {
	Name Event

	SrcState []State

	// DstState is entered only if the event callback returns no error.
	DstState State

	// Internal events cannot be emitted by external callers.
	IsInternal bool
}

// Callback validates an event against the machine payload and returns the
// response data. Returning an error leaves the machine state untouched.
type Callback func(event Event, args ...interface{}) (interface{}, error)

type Callbacks map[Event]Callback

type trKey struct {
	source State
	event  Event
}

type trEvent struct {
	dstState   State
	isInternal bool
}

type FSM struct {
	name         string
	initialState State
	currentState State

	transitions map[trKey]*trEvent
	callbacks   Callbacks

	// Fin states cannot be a source state in this machine.
	finStates map[State]bool

	stateMu sync.RWMutex
}

// MustNewFSM builds a machine from its transition table, panicking on an
// inconsistent declaration. Machines are wired at package init time, so a
// bad table is a programming error, not a runtime condition.
func MustNewFSM(machineName string, initialState State, events []EventDesc, callbacks Callbacks) *FSM {
	machineName = strings.TrimSpace(machineName)
	if machineName == "" {
		panic("machine name cannot be empty")
	}

	initialState = State(strings.TrimSpace(initialState.String()))
	if initialState == "" {
		panic("initial state cannot be empty")
	}

	if len(events) == 0 {
		panic("cannot init fsm with empty events")
	}

	f := &FSM{
		name:         machineName,
		currentState: initialState,
		initialState: initialState,
		transitions:  make(map[trKey]*trEvent),
		finStates:    make(map[State]bool),
		callbacks:    make(Callbacks),
	}

	allEvents := make(map[Event]bool)
	allSources := make(map[State]bool)
	allStates := make(map[State]bool)

	for _, event := range events {
		event.Name = Event(strings.TrimSpace(event.Name.String()))
		event.DstState = State(strings.TrimSpace(event.DstState.String()))

		if event.Name.IsEmpty() {
			panic("cannot init empty event")
		}

		if event.DstState == "" {
			panic(fmt.Sprintf("event \"%s\" dst state cannot be empty", event.Name))
		}

		if allEvents[event.Name] {
			panic(fmt.Sprintf("duplicate event \"%s\"", event.Name))
		}

		allEvents[event.Name] = true
		allStates[event.DstState] = true

		sourcesCount := 0
		for _, sourceState := range event.SrcState {
			sourceState = State(strings.TrimSpace(sourceState.String()))
			if sourceState == "" {
				continue
			}

			if sourceState == StateGlobalDone {
				panic("StateGlobalDone cannot be a source state")
			}

			tKey := trKey{sourceState, event.Name}
			if _, ok := f.transitions[tKey]; ok {
				panic(fmt.Sprintf("duplicate transition for pair \"%s\" + \"%s\"", sourceState, event.Name))
			}

			f.transitions[tKey] = &trEvent{
				dstState:   event.DstState,
				isInternal: event.IsInternal,
			}

			allSources[sourceState] = true
			sourcesCount++
		}

		if sourcesCount == 0 {
			panic(fmt.Sprintf("event \"%s\" must have at least one source state", event.Name))
		}
	}

	if len(allStates) < 2 {
		panic("machine must contain at least two states")
	}

	for event, callback := range callbacks {
		if event.IsEmpty() {
			panic("callback event cannot be empty")
		}
		if !allEvents[event] {
			panic(fmt.Sprintf("callback for unknown event \"%s\"", event))
		}
		f.callbacks[event] = callback
	}

	for state := range allStates {
		if state == StateGlobalIdle {
			continue
		}
		if !allSources[state] || state == StateGlobalDone {
			f.finStates[state] = true
		}
	}

	if len(f.finStates) == 0 {
		panic("cannot initialize machine without final states")
	}

	return f
}

// Do processes an externally emitted event: the callback runs first and the
// transition happens only if it succeeds.
func (f *FSM) Do(event Event, args ...interface{}) (*Response, error) {
	trEvent, ok := f.transitions[trKey{f.State(), event}]
	if !ok {
		return nil, fmt.Errorf("cannot execute event \"%s\" for state \"%s\"", event, f.State())
	}
	if trEvent.isInternal {
		return nil, fmt.Errorf("event \"%s\" is internal", event)
	}

	return f.do(event, trEvent, args...)
}

// DoInternal processes an event regardless of its internal flag. It is used
// by machine providers that drive transitions on behalf of the machine.
func (f *FSM) DoInternal(event Event, args ...interface{}) (*Response, error) {
	trEvent, ok := f.transitions[trKey{f.State(), event}]
	if !ok {
		return nil, fmt.Errorf("cannot execute event \"%s\" for state \"%s\"", event, f.State())
	}

	return f.do(event, trEvent, args...)
}

func (f *FSM) do(event Event, trEvent *trEvent, args ...interface{}) (*Response, error) {
	resp := &Response{
		State: f.State(),
	}

	if callback, ok := f.callbacks[event]; ok {
		data, err := callback(event, args...)
		// Do not change state on error.
		if err != nil {
			return resp, err
		}
		resp.Data = data
	}

	f.setState(trEvent.dstState)
	resp.State = f.State()

	return resp, nil
}

func (f *FSM) State() State {
	f.stateMu.RLock()
	defer f.stateMu.RUnlock()
	return f.currentState
}

// SetState forces the machine into the given state without running any
// callback. Used when restoring a machine from a persisted dump.
func (f *FSM) SetState(state State) {
	f.setState(state)
}

func (f *FSM) setState(state State) {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()
	f.currentState = state
}

func (f *FSM) Name() string {
	return f.name
}

func (f *FSM) InitialState() State {
	return f.initialState
}

func (f *FSM) IsFinState(state State) bool {
	return f.finStates[state]
}
