package handlers

import (
	"net/http"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/auth"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/config"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/relay"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/pkg/logger"

	"github.com/gorilla/websocket"
)

type CollabHandlers struct {
	authService *auth.Service
	router      *relay.Router
	opts        relay.SocketOptions
	upgrader    websocket.Upgrader
}

func NewCollabHandlers(authService *auth.Service, router *relay.Router, cfg config.RelayConfig) *CollabHandlers {
	return &CollabHandlers{
		authService: authService,
		router:      router,
		opts: relay.SocketOptions{
			WriteWait:      cfg.WriteWait,
			PongWait:       cfg.PongWait,
			MaxMessageSize: cfg.MaxMessageSize,
		},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Configure for production
		},
	}
}

func (h *CollabHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Get JWT token from query parameters
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	// Validate token and get user
	user, err := h.authService.GetUserFromToken(r.Context(), tokenStr)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	// Upgrade connection to WebSocket
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	// The connection starts out unjoined; the client sends a join message
	// once it knows which resource it is collaborating on.
	sock := relay.NewSocket(conn, user.ID, user.FullName, h.router, h.opts)
	sock.Start()
}

// Stats reports live session and connection counts.
func (h *CollabHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	sessions, connections := h.router.Stats()
	writeJSON(w, http.StatusOK, map[string]int{
		"sessions":    sessions,
		"connections": connections,
	})
}
