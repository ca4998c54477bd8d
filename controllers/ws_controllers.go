package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/realtime"
	"github.com/phamtan/resort-app/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleDashboardWS upgrades the connection and keeps it registered with
// the hub until the client goes away. Role comes from the auth middleware.
func HandleDashboardWS(c *gin.Context) {
	role := c.GetString("role")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	realtime.RegisterClient(conn, role)
	defer realtime.UnregisterClient(conn)

	// First frame: the unread notification count, so the dashboard can
	// paint its badge without a separate fetch.
	if db := utils.GetDB(); db != nil {
		var unread int64
		if err := db.Model(&models.Notification{}).
			Where("status = ?", "unread").
			Count(&unread).Error; err == nil {
			conn.WriteJSON(gin.H{"type": "init", "unread_notifications": unread})
		}
	}

	conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
		conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	}
}
