package handlers

import (
	"strconv"

	"github.com/campuspool/campuspool-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// GetUserChats lists the caller's chat rooms with their last message
func GetUserChats(chat *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		chats, err := chat.UserChats(userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch chats"})
			return
		}

		c.JSON(200, chats)
	}
}

// GetChatMessages returns a room's messages oldest first. Clients poll with
// ?after=<lastMessageId> to fetch only what's new.
func GetChatMessages(chat *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		chatRoomID, ok := parseID(c, "id")
		if !ok {
			return
		}

		var afterID uint
		if after := c.Query("after"); after != "" {
			parsed, err := strconv.ParseUint(after, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid after parameter"})
				return
			}
			afterID = uint(parsed)
		}

		messages, err := chat.Messages(userId, chatRoomID, afterID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(200, messages)
	}
}

type sendMessageInput struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage posts a message to a room and fans it out to connected clients
func SendMessage(chat *services.ChatService, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		chatRoomID, ok := parseID(c, "id")
		if !ok {
			return
		}

		var input sendMessageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		message, err := chat.SendMessage(userId, chatRoomID, input.Content)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		event := services.ChatEvent{
			ChatRoomID:     message.ChatRoomID,
			MessageID:      message.ID,
			AuthorID:       message.AuthorID,
			AuthorFullname: message.Author.Fullname,
			Content:        message.Content,
			CreatedAt:      message.CreatedAt,
		}
		if services.RedisClient != nil {
			services.PublishChatMessage(c.Request.Context(), event)
		} else {
			hub.SendChatEvent(event)
		}

		c.JSON(201, message)
	}
}
