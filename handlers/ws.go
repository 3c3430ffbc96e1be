package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive for cloud hosting that kills idle connections.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		ownerID, _ := s.Get("owner_id")
		log.Printf("🔌 Client disconnected from owner feed: %v", ownerID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket Error: %v", err)
	})

	return &WSHandler{M: m}
}

// HandleWS subscribes the client to one owner's change feed. A sharing
// partner subscribes to each owner id in their allowed set.
func (h *WSHandler) HandleWS(c *gin.Context) {
	ownerID := c.Param("id")

	err := h.M.HandleRequest(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
		return
	}

	h.M.HandleConnect(func(s *melody.Session) {
		s.Set("owner_id", ownerID)
		log.Printf("✅ Client connected to owner feed: %s", ownerID)
	})
}

// BroadcastUpdate signals every client watching this owner's data.
func (h *WSHandler) BroadcastUpdate(ownerID string, updateType string, userWhoUpdated string) {
	msg := []byte(`{"type": "` + updateType + `", "user": "` + userWhoUpdated + `"}`)

	err := h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("owner_id")
		return exists && id == ownerID
	})

	if err != nil {
		log.Printf("⚠️ Error broadcasting to owner %s: %v", ownerID, err)
	}
}
