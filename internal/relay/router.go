package relay

import (
	"encoding/json"
	"time"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/pkg/logger"
)

// Router interprets inbound messages and fans out the matching broadcasts.
// The relay is best-effort and fire-and-forget: malformed messages, unknown
// types and protocol misuse are dropped without an error reply, and the
// connection stays open.
type Router struct {
	registry *Registry
	sessions *Directory
}

func NewRouter(registry *Registry, sessions *Directory) *Router {
	return &Router{
		registry: registry,
		sessions: sessions,
	}
}

// Connect registers a newly opened connection. It starts out unjoined.
func (r *Router) Connect(c Conn) {
	r.registry.Register(c)
	logger.Info("Relay connection opened for user %d (%s)", c.UserID(), c.Username())
}

// Disconnect handles transport-level close: an implicit leave with the same
// broadcasts as an explicit one, then removal from the registry.
func (r *Router) Disconnect(c Conn) {
	if key, ok := r.sessions.Leave(c); ok {
		r.broadcastUserLeft(c, key)
	}
	if r.registry.Unregister(c) {
		logger.Info("Relay connection closed for user %d (%s)", c.UserID(), c.Username())
	}
}

// HandleMessage processes one inbound message from the connection.
func (r *Router) HandleMessage(c Conn, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Warn("Dropping malformed relay message from user %d: %v", c.UserID(), err)
		return
	}

	switch msg.Type {
	case TypeJoin:
		r.handleJoin(c, &msg)
	case TypeLeave:
		r.handleLeave(c)
	case TypeChat:
		r.handleChat(c, &msg)
	case TypeEdit, TypeCursorMove:
		r.handleSignal(c, &msg)
	default:
		logger.Debug("Dropping relay message with unknown type %q from user %d", msg.Type, c.UserID())
	}
}

func (r *Router) handleJoin(c Conn, msg *Message) {
	if msg.ResourceType == "" {
		logger.Debug("Dropping join without resource type from user %d", c.UserID())
		return
	}
	key := SessionKey{ResourceType: msg.ResourceType, ResourceID: msg.ResourceID}

	prev, left := r.sessions.Join(c, key)
	if left {
		r.broadcastUserLeft(c, prev)
	}

	// Snapshot taken after the join, so the list includes the joiner.
	members := r.sessions.Members(key)
	users := make([]SessionUser, 0, len(members))
	for _, m := range members {
		users = append(users, SessionUser{UserID: m.UserID(), Username: m.Username()})
	}
	r.sendTo(c, &Message{
		Type:  TypeSessionUsers,
		Users: users,
	})

	joined := &Message{
		Type:      TypeUserJoined,
		UserID:    c.UserID(),
		Username:  c.Username(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	r.broadcast(key, joined, c)
}

func (r *Router) handleLeave(c Conn) {
	key, ok := r.sessions.Leave(c)
	if !ok {
		return
	}
	r.broadcastUserLeft(c, key)
}

func (r *Router) handleChat(c Conn, msg *Message) {
	if _, ok := r.sessions.SessionOf(c); !ok {
		logger.Debug("Dropping chat from unjoined user %d", c.UserID())
		return
	}
	key := SessionKey{ResourceType: msg.ResourceType, ResourceID: msg.ResourceID}

	// Chat fans out to every current member, sender included. Clients render
	// their own messages via optimistic local echo and filter the duplicate.
	out := &Message{
		Type:      TypeChat,
		Message:   msg.Message,
		UserID:    c.UserID(),
		Username:  c.Username(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	r.broadcast(key, out, nil)
}

func (r *Router) handleSignal(c Conn, msg *Message) {
	if _, ok := r.sessions.SessionOf(c); !ok {
		logger.Debug("Dropping %s from unjoined user %d", msg.Type, c.UserID())
		return
	}
	key := SessionKey{ResourceType: msg.ResourceType, ResourceID: msg.ResourceID}

	out := &Message{
		Type:     msg.Type,
		Changes:  msg.Changes,
		Position: msg.Position,
		UserID:   c.UserID(),
		Username: c.Username(),
	}
	r.broadcast(key, out, c)
}

func (r *Router) broadcastUserLeft(c Conn, key SessionKey) {
	left := &Message{
		Type:      TypeUserLeft,
		UserID:    c.UserID(),
		Username:  c.Username(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	r.broadcast(key, left, c)
}

// broadcast sends msg to every member of the session except exclude.
// Pass exclude=nil to reach all members.
func (r *Router) broadcast(key SessionKey, msg *Message, exclude Conn) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Error marshaling relay broadcast: %v", err)
		return
	}

	for _, m := range r.sessions.Members(key) {
		if exclude != nil && m == exclude {
			continue
		}
		if err := m.Send(data); err != nil {
			logger.Warn("Dropping slow relay connection for user %d: %v", m.UserID(), err)
			r.Disconnect(m)
			m.Close()
		}
	}
}

func (r *Router) sendTo(c Conn, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Error marshaling relay message: %v", err)
		return
	}
	if err := c.Send(data); err != nil {
		logger.Warn("Error sending relay message to user %d: %v", c.UserID(), err)
	}
}

// Stats reports the number of live sessions and registered connections.
func (r *Router) Stats() (sessions, connections int) {
	return r.sessions.Sessions(), r.registry.Count()
}
