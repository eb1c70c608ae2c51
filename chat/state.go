package chat

// ConnectionState represents where a Session is in its lifecycle.
// Transitions only move forward: Idle -> Connecting -> Open -> Closed.
type ConnectionState int

const (
	// StateIdle means the session has not started connecting yet.
	StateIdle ConnectionState = iota

	// StateConnecting means the room is being resolved and the transport dialed.
	StateConnecting

	// StateOpen means the transport is established and messages can be sent.
	StateOpen

	// StateClosed means the session ended, either by Close or by a failure.
	// A closed session is never reopened.
	StateClosed
)

// String returns the string representation of a ConnectionState.
func (s ConnectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// canTransition reports whether moving from s to next keeps the lifecycle monotonic.
func (s ConnectionState) canTransition(next ConnectionState) bool {
	return next > s
}

// StateEvent represents a state change event.
type StateEvent struct {
	SessionID string
	OldState  ConnectionState
	NewState  ConnectionState
	Error     error // Optional error that caused the state change
}
