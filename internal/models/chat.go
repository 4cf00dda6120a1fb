package models

import "gorm.io/gorm"

// ChatRoom is the messaging channel scoped 1:1 to a ride.
type ChatRoom struct {
	gorm.Model
	RideID   uint           `json:"rideId" gorm:"not null;uniqueIndex"`
	Ride     Ride           `json:"-"`
	Users    []ChatRoomUser `json:"users,omitempty"`
	Messages []Message      `json:"messages,omitempty"`
}

type ChatRoomUser struct {
	gorm.Model
	UserID     uint `json:"userId" gorm:"not null;uniqueIndex:idx_chat_room_user"`
	ChatRoomID uint `json:"chatRoomId" gorm:"not null;uniqueIndex:idx_chat_room_user"`
	User       User `json:"user"`
}

type Message struct {
	gorm.Model
	ChatRoomID uint   `json:"chatRoomId" gorm:"not null;index"`
	AuthorID   uint   `json:"authorId" gorm:"not null"`
	Author     User   `json:"author"`
	Content    string `json:"content" gorm:"not null"`
}
