package collab

import "github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/relay"

// The client speaks the same wire protocol as the server relay.
type (
	Message     = relay.Message
	MessageType = relay.MessageType
	SessionUser = relay.SessionUser
)

const (
	TypeJoin         = relay.TypeJoin
	TypeLeave        = relay.TypeLeave
	TypeChat         = relay.TypeChat
	TypeEdit         = relay.TypeEdit
	TypeCursorMove   = relay.TypeCursorMove
	TypeUserJoined   = relay.TypeUserJoined
	TypeUserLeft     = relay.TypeUserLeft
	TypeSessionUsers = relay.TypeSessionUsers
)
