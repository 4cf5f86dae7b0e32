package relay

import (
	"time"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/pkg/logger"

	"github.com/gorilla/websocket"
)

// SocketOptions tunes the websocket transport behind a relay connection.
type SocketOptions struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int
}

func DefaultSocketOptions() SocketOptions {
	return SocketOptions{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 8192,
	}
}

// Socket adapts a gorilla websocket connection to the relay's Conn
// interface, with the usual buffered-send / read-pump / write-pump split.
type Socket struct {
	userID   int
	username string
	ws       *websocket.Conn
	send     chan []byte
	router   *Router
	opts     SocketOptions
}

func NewSocket(ws *websocket.Conn, userID int, username string, router *Router, opts SocketOptions) *Socket {
	return &Socket{
		userID:   userID,
		username: username,
		ws:       ws,
		send:     make(chan []byte, 256),
		router:   router,
		opts:     opts,
	}
}

func (s *Socket) UserID() int      { return s.userID }
func (s *Socket) Username() string { return s.username }

func (s *Socket) Send(data []byte) error {
	select {
	case s.send <- data:
		return nil
	default:
		return websocket.ErrCloseSent
	}
}

func (s *Socket) Close() error {
	return s.ws.Close()
}

// Start registers the socket with the router and runs both pumps.
func (s *Socket) Start() {
	s.router.Connect(s)
	go s.writePump()
	go s.readPump()
}

func (s *Socket) readPump() {
	defer func() {
		s.router.Disconnect(s)
		s.ws.Close()
	}()

	s.ws.SetReadLimit(int64(s.opts.MaxMessageSize))
	s.ws.SetReadDeadline(time.Now().Add(s.opts.PongWait))
	s.ws.SetPongHandler(func(string) error {
		s.ws.SetReadDeadline(time.Now().Add(s.opts.PongWait))
		return nil
	})

	for {
		_, data, err := s.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket read error for user %d: %v", s.userID, err)
			}
			return
		}

		s.router.HandleMessage(s, data)
	}
}

func (s *Socket) writePump() {
	pingPeriod := s.opts.PongWait * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			s.ws.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			if !ok {
				s.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("WebSocket write error for user %d: %v", s.userID, err)
				return
			}

		case <-ticker.C:
			s.ws.SetWriteDeadline(time.Now().Add(s.opts.WriteWait))
			if err := s.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
