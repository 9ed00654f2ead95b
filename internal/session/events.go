// Package session implements the per-chat conversation state machine. Each
// flow is a fixed sequence of steps with a typed accumulator; engine calls
// happen only at the terminal transition.
package session

// EventKind classifies what the gateway received.
type EventKind int

const (
	// EventStart begins a flow from idle.
	EventStart EventKind = iota
	// EventSelect is a button press carrying an action:value payload.
	EventSelect
	// EventText is a plain text message.
	EventText
	// EventCancel aborts the current flow from any state.
	EventCancel
)

type Event struct {
	Kind EventKind
	// Flow is set for EventStart.
	Flow Flow
	// Action/Value carry the parsed callback payload for EventSelect;
	// Value carries the message text for EventText.
	Action string
	Value  string
}

func StartEvent(flow Flow) Event {
	return Event{Kind: EventStart, Flow: flow}
}

func SelectEvent(action, value string) Event {
	return Event{Kind: EventSelect, Action: action, Value: value}
}

func TextEvent(text string) Event {
	return Event{Kind: EventText, Value: text}
}

func CancelEvent() Event {
	return Event{Kind: EventCancel}
}

// Choice is one selectable option of a menu; the gateway encodes it as an
// inline button with payload Action:Value.
type Choice struct {
	Label  string
	Action string
	Value  string
}

// Prompt is what the state machine hands back for rendering.
type Prompt struct {
	Text    string
	Choices []Choice
	// Done marks a terminal transition: the session record was cleared.
	Done bool
	// Ignored marks an event that did not match the shape the current
	// state expects; the gateway renders nothing.
	Ignored bool
}

func ignored() Prompt {
	return Prompt{Ignored: true}
}

func terminal(text string) Prompt {
	return Prompt{Text: text, Done: true}
}
