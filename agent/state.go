package agent

// State is a node of the run state machine.
type State int

const (
	// StateInit builds the conversation.
	StateInit State = iota
	// StateStep calls the model.
	StateStep
	// StateToolDispatch executes the tool calls of a model turn.
	StateToolDispatch
	// StateDone means a final answer was produced.
	StateDone
	// StateExhausted means the step budget ran out.
	StateExhausted
	// StateInconclusive means the model returned nothing usable.
	StateInconclusive
	// StateFailed means a fatal error ended the run.
	StateFailed
)

var stateNames = map[State]string{
	StateInit:         "INIT",
	StateStep:         "STEP",
	StateToolDispatch: "TOOL_DISPATCH",
	StateDone:         "DONE",
	StateExhausted:    "EXHAUSTED",
	StateInconclusive: "INCONCLUSIVE",
	StateFailed:       "FAILED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText renders the state name in JSON and YAML output.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateExhausted, StateInconclusive, StateFailed:
		return true
	default:
		return false
	}
}
