package bot

import "github.com/go-arcade/quizhub/pkg/statemachine"

// State 会话状态
type State string

const (
	StateIdle                       State = "idle"
	StateAwaitingTeamName           State = "awaiting_team_name"
	StateAwaitingDeleteConfirmation State = "awaiting_delete_confirmation"
)

const (
	EventStartCreation statemachine.Event = "start_creation"
	EventRequestDelete statemachine.Event = "request_delete"
	EventReply         statemachine.Event = "reply"
)

// conversation is the shared transition table; each update works on a clone.
var conversation = newConversation()

func newConversation() *statemachine.StateMachine[State] {
	sm := statemachine.NewWithState(StateIdle)
	for _, from := range []State{StateIdle, StateAwaitingTeamName, StateAwaitingDeleteConfirmation} {
		sm.AddEventTransition(from, EventStartCreation, StateAwaitingTeamName)
		sm.AddEventTransition(from, EventRequestDelete, StateAwaitingDeleteConfirmation)
	}
	sm.AddEventTransition(StateAwaitingTeamName, EventReply, StateIdle)
	sm.AddEventTransition(StateAwaitingDeleteConfirmation, EventReply, StateIdle)
	return sm
}

// machineFor returns a state machine positioned at state.
func machineFor(state State) *statemachine.StateMachine[State] {
	if state == "" {
		state = StateIdle
	}
	return conversation.Clone(state)
}
