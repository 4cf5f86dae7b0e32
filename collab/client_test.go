package collab

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (c *Client) snapshot() (state State, attempts int, timerPending bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.attempts, c.reconnectTimer != nil
}

func TestClientSendWhileDisconnected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "ws://127.0.0.1:1/ws"
	cfg.AutoReconnect = false
	c := NewClient(cfg, StaticIdentity{ID: 1, FullName: "Aarav"})

	assert.False(t, c.Send(Message{Type: TypeChat, Message: "hello"}))
	assert.False(t, c.JoinSession("book", 42))
	assert.Equal(t, StateDisconnected, c.State())
}

func TestClientReconnectAttemptsAreBounded(t *testing.T) {
	cfg := DefaultConfig()
	// Nothing listens on this port; every dial fails.
	cfg.URL = "ws://127.0.0.1:1/ws"
	cfg.ReconnectDelay = 10 * time.Millisecond
	cfg.MaxReconnectAttempts = 3
	cfg.HandshakeTimeout = time.Second
	c := NewClient(cfg, StaticIdentity{ID: 1, FullName: "Aarav"})
	defer c.Close()

	require.Error(t, c.Connect(context.Background()))

	require.Eventually(t, func() bool {
		_, attempts, timerPending := c.snapshot()
		return attempts == cfg.MaxReconnectAttempts && !timerPending
	}, 5*time.Second, 10*time.Millisecond)

	// Give a would-be extra attempt time to show up.
	time.Sleep(5 * cfg.ReconnectDelay)

	state, attempts, timerPending := c.snapshot()
	assert.Equal(t, StateDisconnected, state)
	assert.Equal(t, cfg.MaxReconnectAttempts, attempts)
	assert.False(t, timerPending)
}

func TestClientCloseCancelsPendingReconnect(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "ws://127.0.0.1:1/ws"
	cfg.ReconnectDelay = time.Minute
	cfg.MaxReconnectAttempts = 5
	cfg.HandshakeTimeout = time.Second
	c := NewClient(cfg, StaticIdentity{ID: 1, FullName: "Aarav"})

	require.Error(t, c.Connect(context.Background()))
	_, attempts, timerPending := c.snapshot()
	require.Equal(t, 1, attempts)
	require.True(t, timerPending)

	require.NoError(t, c.Close())

	_, attempts, timerPending = c.snapshot()
	assert.Equal(t, 1, attempts)
	assert.False(t, timerPending)

	// A closed client refuses to dial again.
	assert.Error(t, c.Connect(context.Background()))
}

func TestClientStampsIdentityAndDispatchesInbound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer ws.CloseNow()

		// Echo the first message back to the sender.
		var msg Message
		if err := wsjson.Read(r.Context(), ws, &msg); err != nil {
			return
		}
		if err := wsjson.Write(r.Context(), ws, msg); err != nil {
			return
		}
		<-r.Context().Done()
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.URL = "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	cfg.AutoReconnect = false
	c := NewClient(cfg, StaticIdentity{ID: 7, FullName: "Bhavna"})
	defer c.Close()

	received := make(chan Message, 1)
	unsub := c.Subscribe(TypeChat, func(m Message) { received <- m })
	defer unsub()

	require.NoError(t, c.Connect(context.Background()))
	assert.Equal(t, StateConnected, c.State())

	require.True(t, c.SendChatMessage("book", 42, "hello"))

	select {
	case msg := <-received:
		assert.Equal(t, TypeChat, msg.Type)
		assert.Equal(t, "hello", msg.Message)
		assert.Equal(t, 7, msg.UserID)
		assert.Equal(t, "Bhavna", msg.Username)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for echoed chat message")
	}
}

func TestClientAttemptCounterResetsOnSuccessfulConnect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer ws.CloseNow()
		<-r.Context().Done()
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.URL = "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	cfg.AutoReconnect = false
	c := NewClient(cfg, StaticIdentity{ID: 1, FullName: "Aarav"})
	defer c.Close()

	c.mu.Lock()
	c.attempts = 4
	c.mu.Unlock()

	require.NoError(t, c.Connect(context.Background()))

	_, attempts, _ := c.snapshot()
	assert.Equal(t, 0, attempts)
}
