// internal/audit/handlers.go

package audit

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/theloveculture/tlc-backend/internal/auth"
	"github.com/theloveculture/tlc-backend/internal/common/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect from the web front-end's origin; token
		// auth already gates the upgrade.
		return true
	},
}

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Stream upgrades the connection and subscribes the authenticated member to
// their decision events.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	memberID, ok := auth.MemberID(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("audit: websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, memberID)
	h.hub.register <- client
	client.Start()
}
