package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Options tunes the upgrader and the per-connection keepalive.
// Zero values fall back to sensible defaults.
type Options struct {
	ReadBufferSize  int
	WriteBufferSize int
	PingInterval    time.Duration
	PongTimeout     time.Duration
	AllowedOrigins  []string
}

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	opts     Options
}

func NewHandler(opts Options) *Handler {
	hub := NewHub()
	go hub.Run()

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  opts.ReadBufferSize,
			WriteBufferSize: opts.WriteBufferSize,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
		opts: opts,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	allowAll := len(allowed) == 0
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
		}
		set[origin] = true
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		return set[r.Header.Get("Origin")]
	}
}

// HandleWebSocket upgrades the connection. Authenticated users join their
// own room; anonymous connections get a viewer identity and can only watch
// tracking sessions.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	userIDStr := "viewer_" + c.Request.RemoteAddr
	if userID, exists := c.Get("user_id"); exists {
		id, ok := userID.(string)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		userIDStr = id
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, userIDStr, h.opts.PingInterval, h.opts.PongTimeout)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Handler) SendSessionUpdate(sessionID string, data map[string]interface{}) {
	h.hub.SendSessionUpdate(sessionID, data)
}

func (h *Handler) SendUserNotification(userID string, notificationType string, data map[string]interface{}) {
	message := Message{
		Type:      notificationType,
		UserID:    userID,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	}

	h.hub.SendToUser(userID, message)
}

func (h *Handler) GetHub() *Hub {
	return h.hub
}
