package handlers

import (
	"github.com/campuspool/campuspool-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// WebSocketHandler upgrades the connection and subscribes the caller to a
// chat room's message stream. Access is gated the same way as the HTTP
// message endpoints.
func WebSocketHandler(chat *services.ChatService, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		chatRoomID, ok := parseID(c, "chatRoomId")
		if !ok {
			return
		}

		authorized, err := chat.IsAuthorized(chatRoomID, userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to check chat access"})
			return
		}
		if !authorized {
			c.JSON(403, gin.H{"error": "You don't have access to this chat"})
			return
		}

		services.HandleWebSocket(hub, c.Writer, c.Request, userId, chatRoomID)
	}
}
