package handler

import (
	"net/http"

	"civicpulse/backend/internal/models"
	"civicpulse/backend/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Subscribe upgrades the connection and registers a realtime subscriber.
// The filter comes from the scope query parameter: all (default), own
// (requires authentication), or department (officers get their own
// department, others must name one).
func (h *Handler) Subscribe(c *gin.Context) {
	ident := currentIdentity(c)

	filter := realtime.Filter{Scope: realtime.ScopeAll}
	switch realtime.Scope(c.Query("scope")) {
	case realtime.ScopeOwn:
		if !ident.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required for own scope"})
			return
		}
		filter = realtime.Filter{Scope: realtime.ScopeOwn, UserID: ident.UserID}

	case realtime.ScopeDepartment:
		dept := c.Query("department")
		if dept == "" && ident.IsOfficer() && ident.Department != nil {
			dept = *ident.Department
		}
		if dept == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "department is required"})
			return
		}
		filter = realtime.Filter{Scope: realtime.ScopeDepartment, Department: dept}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	client := &realtime.WebSocketClient{
		ID:     uuid.New().String(),
		Filter: filter,
		Conn:   conn,
		Hub:    h.Hub,
		Send:   make(chan models.ChangeEvent, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
