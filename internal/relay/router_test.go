package relay

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	id       int
	name     string
	mu       sync.Mutex
	received [][]byte
	closed   bool
	sendErr  error
}

func newMockConn(id int, name string) *mockConn {
	return &mockConn{id: id, name: name}
}

func (m *mockConn) UserID() int      { return m.id }
func (m *mockConn) Username() string { return m.name }

func (m *mockConn) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.received = append(m.received, data)
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// messages decodes everything the connection received so far.
func (m *mockConn) messages(t *testing.T) []Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Message, 0, len(m.received))
	for _, data := range m.received {
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		out = append(out, msg)
	}
	return out
}

// ofType filters received messages by type.
func (m *mockConn) ofType(t *testing.T, typ MessageType) []Message {
	t.Helper()
	var out []Message
	for _, msg := range m.messages(t) {
		if msg.Type == typ {
			out = append(out, msg)
		}
	}
	return out
}

func newTestRouter() *Router {
	return NewRouter(NewRegistry(), NewDirectory())
}

func joinMsg(resourceType string, resourceID int) []byte {
	return []byte(fmt.Sprintf(`{"type":"join","resourceType":%q,"resourceId":%d}`, resourceType, resourceID))
}

func chatMsg(resourceType string, resourceID int, text string) []byte {
	return []byte(fmt.Sprintf(`{"type":"chat","resourceType":%q,"resourceId":%d,"message":%q}`, resourceType, resourceID, text))
}

func TestRouter_JoinNotifiesOthersNotSelf(t *testing.T) {
	r := newTestRouter()
	a := newMockConn(1, "Aarav")
	b := newMockConn(2, "Bhavna")
	r.Connect(a)
	r.Connect(b)

	r.HandleMessage(a, joinMsg("book", 42))
	r.HandleMessage(b, joinMsg("book", 42))

	joined := a.ofType(t, TypeUserJoined)
	require.Len(t, joined, 1)
	assert.Equal(t, 2, joined[0].UserID)
	assert.Equal(t, "Bhavna", joined[0].Username)
	assert.NotEmpty(t, joined[0].Timestamp)

	// The joiner is not told about itself.
	assert.Empty(t, b.ofType(t, TypeUserJoined))
}

func TestRouter_SessionUsersSnapshotIncludesJoiner(t *testing.T) {
	r := newTestRouter()
	a := newMockConn(1, "Aarav")
	b := newMockConn(2, "Bhavna")
	r.Connect(a)
	r.Connect(b)

	r.HandleMessage(a, joinMsg("book", 42))
	r.HandleMessage(b, joinMsg("book", 42))

	snapshots := b.ofType(t, TypeSessionUsers)
	require.Len(t, snapshots, 1)

	got := map[int]string{}
	for _, u := range snapshots[0].Users {
		got[u.UserID] = u.Username
	}
	assert.Equal(t, map[int]string{1: "Aarav", 2: "Bhavna"}, got)
}

func TestRouter_ChatFanOut(t *testing.T) {
	r := newTestRouter()
	a := newMockConn(1, "Aarav")
	b := newMockConn(2, "Bhavna")
	other := newMockConn(3, "Chitra")
	for _, c := range []*mockConn{a, b, other} {
		r.Connect(c)
	}
	r.HandleMessage(a, joinMsg("book", 42))
	r.HandleMessage(b, joinMsg("book", 42))
	r.HandleMessage(other, joinMsg("task", 7))

	r.HandleMessage(b, chatMsg("book", 42, "hello"))

	chats := a.ofType(t, TypeChat)
	require.Len(t, chats, 1)
	assert.Equal(t, "hello", chats[0].Message)
	assert.Equal(t, 2, chats[0].UserID)
	assert.Equal(t, "Bhavna", chats[0].Username)
	assert.NotEmpty(t, chats[0].Timestamp)

	// Sender gets the server echo too; its client deduplicates against the
	// optimistic local copy.
	assert.Len(t, b.ofType(t, TypeChat), 1)

	// No cross-session delivery.
	assert.Empty(t, other.ofType(t, TypeChat))
}

func TestRouter_ChatWhileUnjoinedDropped(t *testing.T) {
	r := newTestRouter()
	a := newMockConn(1, "Aarav")
	b := newMockConn(2, "Bhavna")
	r.Connect(a)
	r.Connect(b)
	r.HandleMessage(a, joinMsg("book", 42))

	r.HandleMessage(b, chatMsg("book", 42, "hello"))

	assert.Empty(t, a.ofType(t, TypeChat))
	assert.Empty(t, b.ofType(t, TypeChat))
	// The connection is not closed for protocol misuse.
	assert.True(t, r.registry.Contains(b))
}

func TestRouter_SignalsExcludeSenderAndPassPayloadVerbatim(t *testing.T) {
	tests := []struct {
		name    string
		inbound string
		typ     MessageType
	}{
		{
			name:    "edit",
			inbound: `{"type":"edit","resourceType":"document","resourceId":7,"changes":{"insert":"x","at":3}}`,
			typ:     TypeEdit,
		},
		{
			name:    "cursor_move",
			inbound: `{"type":"cursor_move","resourceType":"document","resourceId":7,"position":{"line":2,"col":11}}`,
			typ:     TypeCursorMove,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter()
			a := newMockConn(1, "Aarav")
			b := newMockConn(2, "Bhavna")
			r.Connect(a)
			r.Connect(b)
			r.HandleMessage(a, joinMsg("document", 7))
			r.HandleMessage(b, joinMsg("document", 7))

			r.HandleMessage(a, []byte(tt.inbound))

			got := b.ofType(t, tt.typ)
			require.Len(t, got, 1)
			assert.Equal(t, 1, got[0].UserID)
			assert.Equal(t, "Aarav", got[0].Username)

			var want Message
			require.NoError(t, json.Unmarshal([]byte(tt.inbound), &want))
			assert.JSONEq(t, string(mustRaw(want.Changes)), string(mustRaw(got[0].Changes)))
			assert.JSONEq(t, string(mustRaw(want.Position)), string(mustRaw(got[0].Position)))

			// The sender does not hear its own signal.
			assert.Empty(t, a.ofType(t, tt.typ))
		})
	}
}

func mustRaw(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

func TestRouter_LeaveBroadcastsAndCleansUp(t *testing.T) {
	r := newTestRouter()
	a := newMockConn(1, "Aarav")
	b := newMockConn(2, "Bhavna")
	r.Connect(a)
	r.Connect(b)
	r.HandleMessage(a, joinMsg("book", 42))
	r.HandleMessage(b, joinMsg("book", 42))

	r.HandleMessage(b, []byte(`{"type":"leave"}`))

	left := a.ofType(t, TypeUserLeft)
	require.Len(t, left, 1)
	assert.Equal(t, 2, left[0].UserID)
	assert.Equal(t, "Bhavna", left[0].Username)

	r.HandleMessage(a, []byte(`{"type":"leave"}`))

	sessions, conns := r.Stats()
	assert.Equal(t, 0, sessions)
	assert.Equal(t, 2, conns)
}

func TestRouter_LeaveWhileUnjoinedIsNoop(t *testing.T) {
	r := newTestRouter()
	a := newMockConn(1, "Aarav")
	b := newMockConn(2, "Bhavna")
	r.Connect(a)
	r.Connect(b)
	r.HandleMessage(a, joinMsg("book", 42))

	r.HandleMessage(b, []byte(`{"type":"leave"}`))

	assert.Empty(t, a.ofType(t, TypeUserLeft))
}

func TestRouter_JoinOtherSessionImpliesLeave(t *testing.T) {
	r := newTestRouter()
	a := newMockConn(1, "Aarav")
	b := newMockConn(2, "Bhavna")
	r.Connect(a)
	r.Connect(b)
	r.HandleMessage(a, joinMsg("book", 42))
	r.HandleMessage(b, joinMsg("book", 42))

	r.HandleMessage(b, joinMsg("task", 7))

	left := a.ofType(t, TypeUserLeft)
	require.Len(t, left, 1)
	assert.Equal(t, 2, left[0].UserID)

	key, ok := r.sessions.SessionOf(b)
	require.True(t, ok)
	assert.Equal(t, SessionKey{ResourceType: "task", ResourceID: 7}, key)
}

func TestRouter_MalformedAndUnknownMessagesDropped(t *testing.T) {
	tests := []struct {
		name    string
		inbound []byte
	}{
		{name: "invalid json", inbound: []byte("not json")},
		{name: "unknown type", inbound: []byte(`{"type":"frobnicate"}`)},
		{name: "join without resource type", inbound: []byte(`{"type":"join","resourceId":42}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter()
			a := newMockConn(1, "Aarav")
			b := newMockConn(2, "Bhavna")
			r.Connect(a)
			r.Connect(b)
			r.HandleMessage(a, joinMsg("book", 42))

			r.HandleMessage(b, tt.inbound)

			assert.Empty(t, a.ofType(t, TypeUserJoined))
			assert.Empty(t, b.messages(t))
			assert.True(t, r.registry.Contains(b))
		})
	}
}

func TestRouter_DisconnectActsAsLeave(t *testing.T) {
	r := newTestRouter()
	a := newMockConn(1, "Aarav")
	b := newMockConn(2, "Bhavna")
	r.Connect(a)
	r.Connect(b)
	r.HandleMessage(a, joinMsg("book", 42))
	r.HandleMessage(b, joinMsg("book", 42))

	r.Disconnect(b)

	left := a.ofType(t, TypeUserLeft)
	require.Len(t, left, 1)
	assert.Equal(t, 2, left[0].UserID)

	sessions, conns := r.Stats()
	assert.Equal(t, 1, sessions)
	assert.Equal(t, 1, conns)
}

func TestRouter_FailedSendEvictsConnection(t *testing.T) {
	r := newTestRouter()
	a := newMockConn(1, "Aarav")
	b := newMockConn(2, "Bhavna")
	r.Connect(a)
	r.Connect(b)
	r.HandleMessage(a, joinMsg("book", 42))
	r.HandleMessage(b, joinMsg("book", 42))

	b.sendErr = fmt.Errorf("send buffer full")
	r.HandleMessage(a, chatMsg("book", 42, "hello"))

	assert.True(t, b.closed)
	assert.False(t, r.registry.Contains(b))
	_, joined := r.sessions.SessionOf(b)
	assert.False(t, joined)
}

// Full walkthrough: join, presence, chat, disconnect.
func TestRouter_CollaborationScenario(t *testing.T) {
	r := newTestRouter()
	a := newMockConn(1, "Aarav")
	b := newMockConn(2, "Bhavna")
	r.Connect(a)
	r.Connect(b)

	r.HandleMessage(a, joinMsg("book", 42))
	r.HandleMessage(b, joinMsg("book", 42))

	joined := a.ofType(t, TypeUserJoined)
	require.Len(t, joined, 1)
	assert.Equal(t, 2, joined[0].UserID)

	snapshots := b.ofType(t, TypeSessionUsers)
	require.Len(t, snapshots, 1)
	assert.Len(t, snapshots[0].Users, 2)

	r.HandleMessage(b, chatMsg("book", 42, "hello"))
	chats := a.ofType(t, TypeChat)
	require.Len(t, chats, 1)
	assert.Equal(t, "hello", chats[0].Message)
	assert.Equal(t, 2, chats[0].UserID)

	r.Disconnect(b)
	left := a.ofType(t, TypeUserLeft)
	require.Len(t, left, 1)
	assert.Equal(t, 2, left[0].UserID)

	members := r.sessions.Members(SessionKey{ResourceType: "book", ResourceID: 42})
	require.Len(t, members, 1)
	assert.Equal(t, 1, members[0].UserID())
}
