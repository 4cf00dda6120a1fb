package services

import (
	"testing"

	"github.com/campuspool/campuspool-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatAccessControl(t *testing.T) {
	db := newTestDB(t)
	rides := NewRideService(db)
	chat := NewChatService(db)
	creator := newTestUser(t, db, "Rahul", models.GenderMale)
	stranger := newTestUser(t, db, "Karthik", models.GenderMale)

	ride, err := rides.CreateRide(creator.ID, validRideAttrs())
	require.NoError(t, err)

	var chatRoom models.ChatRoom
	require.NoError(t, db.Where("ride_id = ?", ride.ID).First(&chatRoom).Error)

	_, err = chat.Messages(stranger.ID, chatRoom.ID, 0)
	assert.ErrorIs(t, err, ErrChatAccessDenied)

	_, err = chat.SendMessage(stranger.ID, chatRoom.ID, "let me in")
	assert.ErrorIs(t, err, ErrChatAccessDenied)

	_, err = chat.Messages(creator.ID, 9999, 0)
	assert.ErrorIs(t, err, ErrChatRoomNotFound)

	messages, err := chat.Messages(creator.ID, chatRoom.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestJoinGrantsChatMembership(t *testing.T) {
	db := newTestDB(t)
	rides := NewRideService(db)
	chat := NewChatService(db)
	creator := newTestUser(t, db, "Rahul", models.GenderMale)
	passenger := newTestUser(t, db, "Priya", models.GenderFemale)

	ride, err := rides.CreateRide(creator.ID, validRideAttrs())
	require.NoError(t, err)

	var chatRoom models.ChatRoom
	require.NoError(t, db.Where("ride_id = ?", ride.ID).First(&chatRoom).Error)

	authorized, err := chat.IsAuthorized(chatRoom.ID, passenger.ID)
	require.NoError(t, err)
	assert.False(t, authorized)

	require.NoError(t, rides.JoinRide(passenger.ID, ride.ID))

	authorized, err = chat.IsAuthorized(chatRoom.ID, passenger.ID)
	require.NoError(t, err)
	assert.True(t, authorized)
}

func TestLeaveRideKeepsChatAccess(t *testing.T) {
	db := newTestDB(t)
	rides := NewRideService(db)
	chat := NewChatService(db)
	creator := newTestUser(t, db, "Rahul", models.GenderMale)
	passenger := newTestUser(t, db, "Priya", models.GenderFemale)

	ride, err := rides.CreateRide(creator.ID, validRideAttrs())
	require.NoError(t, err)
	require.NoError(t, rides.JoinRide(passenger.ID, ride.ID))

	var chatRoom models.ChatRoom
	require.NoError(t, db.Where("ride_id = ?", ride.ID).First(&chatRoom).Error)

	_, err = chat.SendMessage(passenger.ID, chatRoom.ID, "I'm in!")
	require.NoError(t, err)

	require.NoError(t, rides.LeaveRide(passenger.ID, ride.ID))

	// Former passengers keep chat history access; this is the pinned policy.
	authorized, err := chat.IsAuthorized(chatRoom.ID, passenger.ID)
	require.NoError(t, err)
	assert.True(t, authorized)

	messages, err := chat.Messages(passenger.ID, chatRoom.ID, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestRejoinAfterLeaveIsIdempotentOnChatMembership(t *testing.T) {
	db := newTestDB(t)
	rides := NewRideService(db)
	creator := newTestUser(t, db, "Rahul", models.GenderMale)
	passenger := newTestUser(t, db, "Priya", models.GenderFemale)

	ride, err := rides.CreateRide(creator.ID, validRideAttrs())
	require.NoError(t, err)

	require.NoError(t, rides.JoinRide(passenger.ID, ride.ID))
	require.NoError(t, rides.LeaveRide(passenger.ID, ride.ID))
	require.NoError(t, rides.JoinRide(passenger.ID, ride.ID))

	var chatRoom models.ChatRoom
	require.NoError(t, db.Where("ride_id = ?", ride.ID).First(&chatRoom).Error)

	var memberships int64
	require.NoError(t, db.Model(&models.ChatRoomUser{}).
		Where("chat_room_id = ? AND user_id = ?", chatRoom.ID, passenger.ID).
		Count(&memberships).Error)
	assert.EqualValues(t, 1, memberships, "re-join must not duplicate the membership row")
}

func TestMessagesOrderAndPolling(t *testing.T) {
	db := newTestDB(t)
	rides := NewRideService(db)
	chat := NewChatService(db)
	creator := newTestUser(t, db, "Rahul", models.GenderMale)
	passenger := newTestUser(t, db, "Priya", models.GenderFemale)

	ride, err := rides.CreateRide(creator.ID, validRideAttrs())
	require.NoError(t, err)
	require.NoError(t, rides.JoinRide(passenger.ID, ride.ID))

	var chatRoom models.ChatRoom
	require.NoError(t, db.Where("ride_id = ?", ride.ID).First(&chatRoom).Error)

	first, err := chat.SendMessage(creator.ID, chatRoom.ID, "pickup at 4?")
	require.NoError(t, err)
	second, err := chat.SendMessage(passenger.ID, chatRoom.ID, "works for me")
	require.NoError(t, err)

	messages, err := chat.Messages(creator.ID, chatRoom.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, first.ID, messages[0].ID, "oldest first")
	assert.Equal(t, "pickup at 4?", messages[0].Content)
	assert.Equal(t, creator.Fullname, messages[0].Author.Fullname)

	// Polling with after= returns only newer messages.
	newer, err := chat.Messages(creator.ID, chatRoom.ID, first.ID)
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, second.ID, newer[0].ID)
}

func TestSendMessageValidation(t *testing.T) {
	db := newTestDB(t)
	rides := NewRideService(db)
	chat := NewChatService(db)
	creator := newTestUser(t, db, "Rahul", models.GenderMale)

	ride, err := rides.CreateRide(creator.ID, validRideAttrs())
	require.NoError(t, err)

	var chatRoom models.ChatRoom
	require.NoError(t, db.Where("ride_id = ?", ride.ID).First(&chatRoom).Error)

	var validationErr *ValidationError
	_, err = chat.SendMessage(creator.ID, chatRoom.ID, "   ")
	assert.ErrorAs(t, err, &validationErr)

	_, err = chat.SendMessage(creator.ID, 9999, "hello")
	assert.ErrorIs(t, err, ErrChatRoomNotFound)
}

func TestUserChats(t *testing.T) {
	db := newTestDB(t)
	rides := NewRideService(db)
	chat := NewChatService(db)
	creator := newTestUser(t, db, "Rahul", models.GenderMale)
	passenger := newTestUser(t, db, "Priya", models.GenderFemale)
	stranger := newTestUser(t, db, "Karthik", models.GenderMale)

	ride, err := rides.CreateRide(creator.ID, validRideAttrs())
	require.NoError(t, err)
	require.NoError(t, rides.JoinRide(passenger.ID, ride.ID))

	var chatRoom models.ChatRoom
	require.NoError(t, db.Where("ride_id = ?", ride.ID).First(&chatRoom).Error)
	_, err = chat.SendMessage(passenger.ID, chatRoom.ID, "booked my seat")
	require.NoError(t, err)

	for _, user := range []*models.User{creator, passenger} {
		chats, err := chat.UserChats(user.ID)
		require.NoError(t, err)
		require.Len(t, chats, 1)
		assert.Equal(t, chatRoom.ID, chats[0].ID)
		assert.Equal(t, ride.Source, chats[0].Ride.Source)
		require.NotNil(t, chats[0].LastMessage)
		assert.Equal(t, "booked my seat", chats[0].LastMessage.Content)
		assert.Equal(t, passenger.Fullname, chats[0].LastMessage.AuthorFullname)
	}

	chats, err := chat.UserChats(stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, chats)
}
