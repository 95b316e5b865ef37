package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yourusername/x-batch-go/internal/app"
	"github.com/yourusername/x-batch-go/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Local desktop clients connect from arbitrary origins
	},
}

// ProgressWebSocketHandler streams batch progress events to connected clients
type ProgressWebSocketHandler struct {
	session *app.BatchSession
	logger  *zap.Logger
}

// NewProgressWebSocketHandler creates a new progress WebSocket handler
func NewProgressWebSocketHandler(session *app.BatchSession, logger *zap.Logger) *ProgressWebSocketHandler {
	return &ProgressWebSocketHandler{
		session: session,
		logger:  logger,
	}
}

// HandleWebSocket handles GET /api/v1/batches/progress.
// Each progress event of the in-flight batch is pushed as one JSON message.
func (h *ProgressWebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket", zap.Error(err))
		return
	}
	defer conn.Close()

	// Buffered so a slow client never blocks the download loop
	events := make(chan domain.Progress, 64)
	unsubscribe := h.session.Subscribe(func(p domain.Progress) {
		select {
		case events <- p:
		default:
		}
	})
	defer unsubscribe()

	// Send the current snapshot so late subscribers see state immediately
	if err := conn.WriteJSON(h.session.LastProgress()); err != nil {
		return
	}

	// Drain client frames so closes are noticed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case p := <-events:
			if err := conn.WriteJSON(p); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
