package chat

import "time"

// Event is a single item delivered to the handler registered with OnEvent.
// The concrete type is one of SystemEvent, HistoryEvent, ChatEvent or ErrorEvent.
type Event interface {
	isEvent()
}

// Notice tells where a SystemEvent came from.
type Notice int

const (
	// NoticeServer is a system line sent by the chat server.
	NoticeServer Notice = iota
	// NoticeJoined is emitted locally once the session reaches StateOpen.
	NoticeJoined
	// NoticeDisconnected is emitted locally when an open session is closed by the client.
	NoticeDisconnected
	// NoticeConnectionError is emitted locally when the transport fails or is dropped.
	NoticeConnectionError
	// NoticeJoinFailed is emitted locally when the room cannot be resolved before dialing.
	NoticeJoinFailed
)

// String returns the string representation of a Notice.
func (n Notice) String() string {
	switch n {
	case NoticeServer:
		return "server"
	case NoticeJoined:
		return "joined"
	case NoticeDisconnected:
		return "disconnected"
	case NoticeConnectionError:
		return "connection_error"
	case NoticeJoinFailed:
		return "join_failed"
	default:
		return "unknown"
	}
}

// Local reports whether the notice was produced by the client rather than the server.
func (n Notice) Local() bool { return n != NoticeServer }

// Identity is the user description the server attaches to its welcome line.
type Identity struct {
	Username string `json:"username"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
}

// Message is a chat line, either replayed history or live traffic.
type Message struct {
	ID        int64
	Sender    string
	Content   string
	Timestamp time.Time
	RoomID    int64
}

// SystemEvent is an informational line, from the server or from the client itself.
type SystemEvent struct {
	Text   string
	Notice Notice
	User   *Identity
}

// HistoryEvent carries one message replayed by the server right after joining.
type HistoryEvent struct {
	Message Message
}

// ChatEvent carries one live message broadcast to the room.
type ChatEvent struct {
	Message Message
}

// ErrorEvent is an error line reported by the server, e.g. when history could not be loaded.
type ErrorEvent struct {
	Text string
}

func (SystemEvent) isEvent()  {}
func (HistoryEvent) isEvent() {}
func (ChatEvent) isEvent()    {}
func (ErrorEvent) isEvent()   {}
