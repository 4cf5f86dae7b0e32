package collab

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/pkg/logger"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// State is the connection state of a Client.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

var errClosed = errors.New("collab: client closed")

// Client owns one logical relay connection: it dials the server, redials on
// unexpected closes with a fixed delay and a bounded attempt count, stamps
// every outbound message with the caller's identity, and dispatches inbound
// messages to per-type subscribers. Messages are never buffered across
// disconnects; Send reports failure instead.
type Client struct {
	cfg        Config
	identity   Identity
	dispatcher dispatcher

	mu             sync.Mutex
	state          State
	ws             *websocket.Conn
	attempts       int
	reconnectTimer *time.Timer
	closed         bool
	onState        func(State)
}

func NewClient(cfg Config, identity Identity) *Client {
	return &Client{
		cfg:      cfg,
		identity: identity,
	}
}

// OnStateChange registers a callback invoked after every state transition,
// for connection-status indicators.
func (c *Client) OnStateChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onState = fn
}

// Subscribe registers a handler for one message type and returns its
// unsubscribe func. Multiple handlers per type run in registration order.
func (c *Client) Subscribe(typ MessageType, fn Handler) func() {
	return c.dispatcher.subscribe(typ, fn)
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens a new channel, discarding any previous one. A dial failure
// counts as a close and feeds the auto-reconnect policy.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errClosed
	}
	c.cancelReconnectLocked()
	prev := c.ws
	c.ws = nil
	c.setStateLocked(StateConnecting)
	c.mu.Unlock()

	if prev != nil {
		prev.Close(websocket.StatusNormalClosure, "superseded")
	}

	dialCtx := ctx
	if c.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
		defer cancel()
	}

	ws, _, err := websocket.Dial(dialCtx, c.cfg.URL, nil)
	if err != nil {
		c.mu.Lock()
		c.setStateLocked(StateDisconnected)
		c.mu.Unlock()
		c.scheduleReconnect()
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		ws.Close(websocket.StatusNormalClosure, "client closed")
		return errClosed
	}
	c.ws = ws
	c.attempts = 0
	c.setStateLocked(StateConnected)
	c.mu.Unlock()

	go c.readLoop(ws)
	return nil
}

// Reconnect is the manual retry trigger: it resets the attempt counter and
// dials again.
func (c *Client) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	c.attempts = 0
	c.mu.Unlock()
	return c.Connect(ctx)
}

// Close tears the client down: the pending reconnect timer is cancelled,
// the channel is closed, and no further reconnects are attempted.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.cancelReconnectLocked()
	ws := c.ws
	c.ws = nil
	c.setStateLocked(StateDisconnected)
	c.mu.Unlock()

	if ws != nil {
		return ws.Close(websocket.StatusNormalClosure, "client close")
	}
	return nil
}

// Send transmits one message, stamped with the caller's identity. It
// reports false and does nothing unless the client is connected.
func (c *Client) Send(msg Message) bool {
	c.mu.Lock()
	ws := c.ws
	connected := c.state == StateConnected
	c.mu.Unlock()
	if !connected || ws == nil {
		return false
	}

	msg.UserID, msg.Username = c.identity.Identity()

	ctx := context.Background()
	if c.cfg.WriteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.WriteTimeout)
		defer cancel()
	}
	if err := wsjson.Write(ctx, ws, msg); err != nil {
		logger.Warn("Collab send failed: %v", err)
		return false
	}
	return true
}

// JoinSession joins the collaboration session for one resource, implicitly
// leaving any previous session server-side.
func (c *Client) JoinSession(resourceType string, resourceID int) bool {
	return c.Send(Message{Type: TypeJoin, ResourceType: resourceType, ResourceID: resourceID})
}

// LeaveSession leaves the current session, if any.
func (c *Client) LeaveSession() bool {
	return c.Send(Message{Type: TypeLeave})
}

func (c *Client) SendChatMessage(resourceType string, resourceID int, text string) bool {
	return c.Send(Message{Type: TypeChat, ResourceType: resourceType, ResourceID: resourceID, Message: text})
}

func (c *Client) SendEdit(resourceType string, resourceID int, changes, position json.RawMessage) bool {
	return c.Send(Message{Type: TypeEdit, ResourceType: resourceType, ResourceID: resourceID, Changes: changes, Position: position})
}

func (c *Client) SendCursorPosition(resourceType string, resourceID int, position json.RawMessage) bool {
	return c.Send(Message{Type: TypeCursorMove, ResourceType: resourceType, ResourceID: resourceID, Position: position})
}

func (c *Client) readLoop(ws *websocket.Conn) {
	for {
		_, data, err := ws.Read(context.Background())
		if err != nil {
			c.handleDisconnect(ws)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn("Ignoring malformed collab message: %v", err)
			continue
		}
		c.dispatcher.dispatch(msg)
	}
}

func (c *Client) handleDisconnect(ws *websocket.Conn) {
	c.mu.Lock()
	if c.ws != ws {
		// A newer channel replaced this one; nothing to do.
		c.mu.Unlock()
		return
	}
	c.ws = nil
	closed := c.closed
	c.setStateLocked(StateDisconnected)
	c.mu.Unlock()

	if !closed {
		c.scheduleReconnect()
	}
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.cfg.AutoReconnect || c.attempts >= c.cfg.MaxReconnectAttempts {
		return
	}
	c.attempts++
	c.cancelReconnectLocked()
	c.reconnectTimer = time.AfterFunc(c.cfg.ReconnectDelay, func() {
		if err := c.Connect(context.Background()); err != nil && !errors.Is(err, errClosed) {
			logger.Debug("Collab reconnect attempt failed: %v", err)
		}
	})
}

func (c *Client) cancelReconnectLocked() {
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
}

func (c *Client) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.state = s
	if fn := c.onState; fn != nil {
		go fn(s)
	}
}
