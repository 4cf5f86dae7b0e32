package relay

import "encoding/json"

type MessageType string

const (
	// Client -> server
	TypeJoin       MessageType = "join"
	TypeLeave      MessageType = "leave"
	TypeChat       MessageType = "chat"
	TypeEdit       MessageType = "edit"
	TypeCursorMove MessageType = "cursor_move"

	// Server -> client
	TypeUserJoined   MessageType = "user_joined"
	TypeUserLeft     MessageType = "user_left"
	TypeSessionUsers MessageType = "session_users"
)

// Message is the envelope exchanged over a relay connection. Payload fields
// vary by Type; Changes and Position are forwarded opaque, the relay never
// inspects their shape.
type Message struct {
	Type         MessageType     `json:"type"`
	ResourceType string          `json:"resourceType,omitempty"`
	ResourceID   int             `json:"resourceId,omitempty"`
	Message      string          `json:"message,omitempty"`
	Changes      json.RawMessage `json:"changes,omitempty"`
	Position     json.RawMessage `json:"position,omitempty"`
	UserID       int             `json:"userId,omitempty"`
	Username     string          `json:"username,omitempty"`
	Timestamp    string          `json:"timestamp,omitempty"`
	Users        []SessionUser   `json:"users,omitempty"`
}

// SessionUser is one entry of a session_users snapshot.
type SessionUser struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
}

// SessionKey identifies a collaboration session by the resource it is
// attached to, e.g. ("book", 42).
type SessionKey struct {
	ResourceType string
	ResourceID   int
}

// Conn is one live transport channel between a client and the relay.
type Conn interface {
	UserID() int
	Username() string
	Send(data []byte) error
	Close() error
}
