package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const (
	rideListCacheKey = "rides:dashboard"
	rideListCacheTTL = 30 * time.Second
	chatChannel      = "chat:messages"
)

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// GetCachedRideList returns the cached dashboard listing, if any.
func GetCachedRideList(ctx context.Context) ([]RideSummary, bool) {
	if RedisClient == nil {
		return nil, false
	}

	data, err := RedisClient.Get(ctx, rideListCacheKey).Result()
	if err != nil {
		return nil, false
	}

	var rides []RideSummary
	if err := json.Unmarshal([]byte(data), &rides); err != nil {
		return nil, false
	}
	return rides, true
}

// SetCachedRideList stores the dashboard listing for a short TTL.
func SetCachedRideList(ctx context.Context, rides []RideSummary) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(rides)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, rideListCacheKey, data, rideListCacheTTL).Err()
}

// InvalidateRideList drops the cached listing after any ride mutation.
func InvalidateRideList(ctx context.Context) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Del(ctx, rideListCacheKey).Err()
}

// ChatEvent is the payload published for every new chat message.
type ChatEvent struct {
	ChatRoomID     uint      `json:"chatRoomId"`
	MessageID      uint      `json:"messageId"`
	AuthorID       uint      `json:"authorId"`
	AuthorFullname string    `json:"authorFullname"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PublishChatMessage fans a new message out over Redis pub/sub so every
// instance can push it to its connected WebSocket clients.
func PublishChatMessage(ctx context.Context, event ChatEvent) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return RedisClient.Publish(ctx, chatChannel, data).Err()
}

// SubscribeChatMessages subscribes to the chat channel and returns the
// subscription; the caller consumes it from a goroutine.
func SubscribeChatMessages(ctx context.Context) *redis.PubSub {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Subscribe(ctx, chatChannel)
}
