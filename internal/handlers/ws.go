package handlers

import (
	"net/http"
	"time"

	"github.com/Kartik1014/Rentit/internal/events"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range h.origins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
}

// WebSocket streams booking events for the authenticated user until the
// client goes away.
func (h *Handler) WebSocket(c *gin.Context) {
	principal, ok := h.principal(c)

	if !ok {
		return
	}

	upgrader := h.upgrader()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	log := h.logger.With(zap.Uint("user_id", principal.ID))

	conn.SetReadLimit(events.MaxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(events.PongWait)); err != nil {
		log.Warn("Failed to set initial read deadline", zap.Error(err))
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(events.PongWait))
	})

	client := events.NewClient(conn)
	h.hub.Register(principal.ID, client)

	defer func() {
		h.hub.Unregister(principal.ID, client)
		client.Close()
		log.Debug("WebSocket connection closed")
	}()

	err = client.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "WebSocket connection established",
		"user_id": principal.ID,
	})
	if err != nil {
		log.Warn("Failed to send welcome message", zap.Error(err))
		return
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(events.PingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.Ping(); err != nil {
					log.Debug("Ping failed", zap.Error(err))
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn("WebSocket error", zap.Error(err))
			}
			break
		}
	}
}
