package services

import (
	"errors"
	"strings"
	"time"

	"github.com/campuspool/campuspool-backend/internal/models"
	"gorm.io/gorm"
)

// ChatService gates access to per-ride chat rooms and handles messages.
// Membership is mirrored from the ride roster at join time and deliberately
// kept after a passenger leaves, so chat history stays visible.
type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// ChatSummary is one entry of the caller's chat list.
type ChatSummary struct {
	ID   uint `json:"id"`
	Ride struct {
		ID          uint              `json:"id"`
		Source      string            `json:"source"`
		Destination string            `json:"destination"`
		Date        time.Time         `json:"date"`
		Time        string            `json:"time"`
		SeatsLeft   int               `json:"seatsLeft"`
		Status      models.RideStatus `json:"status"`
	} `json:"ride"`
	LastMessage *LastMessage `json:"lastMessage,omitempty"`
}

type LastMessage struct {
	Content        string    `json:"content"`
	AuthorFullname string    `json:"authorFullname"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IsAuthorized reports whether the user may read and write the chat room.
func (s *ChatService) IsAuthorized(chatRoomID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.ChatRoomUser{}).
		Where("chat_room_id = ? AND user_id = ?", chatRoomID, userID).
		Count(&count).Error
	return count > 0, err
}

// UserChats lists every chat room the user belongs to, either via the
// membership mirror or as the ride's creator.
func (s *ChatService) UserChats(userID uint) ([]ChatSummary, error) {
	var chatRooms []models.ChatRoom
	err := s.db.Preload("Ride").
		Where("id IN (?) OR ride_id IN (?)",
			s.db.Model(&models.ChatRoomUser{}).Select("chat_room_id").Where("user_id = ?", userID),
			s.db.Model(&models.Ride{}).Select("id").Where("creator_id = ?", userID)).
		Order("created_at DESC").
		Find(&chatRooms).Error
	if err != nil {
		return nil, err
	}

	chats := make([]ChatSummary, 0, len(chatRooms))
	for _, room := range chatRooms {
		chat := ChatSummary{ID: room.ID}
		chat.Ride.ID = room.Ride.ID
		chat.Ride.Source = room.Ride.Source
		chat.Ride.Destination = room.Ride.Destination
		chat.Ride.Date = room.Ride.Date
		chat.Ride.Time = room.Ride.Time
		chat.Ride.SeatsLeft = room.Ride.SeatsLeft
		chat.Ride.Status = room.Ride.Status

		var last models.Message
		err := s.db.Preload("Author").
			Where("chat_room_id = ?", room.ID).
			Order("created_at DESC").
			First(&last).Error
		if err == nil {
			chat.LastMessage = &LastMessage{
				Content:        last.Content,
				AuthorFullname: last.Author.Fullname,
				CreatedAt:      last.CreatedAt,
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		chats = append(chats, chat)
	}
	return chats, nil
}

// Messages returns the room's messages oldest first. Pass afterID > 0 to
// fetch only messages newer than one already seen; clients poll with it.
func (s *ChatService) Messages(userID, chatRoomID, afterID uint) ([]models.Message, error) {
	var chatRoom models.ChatRoom
	if err := s.db.First(&chatRoom, chatRoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatRoomNotFound
		}
		return nil, err
	}

	authorized, err := s.IsAuthorized(chatRoomID, userID)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, ErrChatAccessDenied
	}

	query := s.db.Preload("Author").Where("chat_room_id = ?", chatRoomID)
	if afterID > 0 {
		query = query.Where("id > ?", afterID)
	}

	var messages []models.Message
	if err := query.Order("created_at ASC, id ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage appends a message to the room. Messaging is blocked entirely
// once the owning ride is completed, regardless of membership.
func (s *ChatService) SendMessage(userID, chatRoomID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &ValidationError{Fields: map[string]string{"content": "must not be empty"}}
	}

	var chatRoom models.ChatRoom
	if err := s.db.Preload("Ride").First(&chatRoom, chatRoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatRoomNotFound
		}
		return nil, err
	}

	if chatRoom.Ride.Status == models.RideStatusCompleted {
		return nil, ErrRideCompleted
	}

	authorized, err := s.IsAuthorized(chatRoomID, userID)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, ErrChatAccessDenied
	}

	message := models.Message{
		ChatRoomID: chatRoomID,
		AuthorID:   userID,
		Content:    content,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Author").First(&message, message.ID).Error; err != nil {
		return nil, err
	}
	return &message, nil
}
