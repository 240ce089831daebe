package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"oselya/models"

	"github.com/go-redis/redis/v8"
)

// ConversationStore keeps the per-chat booking draft between updates.
// Drafts across different chats are fully independent.
type ConversationStore interface {
	Get(ctx context.Context, chatID int64) (*models.BookingDraft, error)
	Save(ctx context.Context, draft *models.BookingDraft) error
	Clear(ctx context.Context, chatID int64) error
}

// RedisConversationStore stores drafts as JSON values with a TTL, so
// abandoned conversations evict themselves.
type RedisConversationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisConversationStore builds a draft store over the given client.
func NewRedisConversationStore(client *redis.Client, ttl time.Duration) *RedisConversationStore {
	return &RedisConversationStore{client: client, ttl: ttl}
}

func draftKey(chatID int64) string {
	return fmt.Sprintf("draft:%d", chatID)
}

// Get returns the chat's draft, or a fresh Idle draft when none exists or
// the previous one expired.
func (s *RedisConversationStore) Get(ctx context.Context, chatID int64) (*models.BookingDraft, error) {
	data, err := s.client.Get(ctx, draftKey(chatID)).Result()
	if err == redis.Nil {
		return models.NewDraft(chatID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking draft: %w", err)
	}

	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse booking draft: %w", err)
	}
	return &draft, nil
}

// Save writes the draft back, refreshing the eviction TTL.
func (s *RedisConversationStore) Save(ctx context.Context, draft *models.BookingDraft) error {
	draft.UpdatedAt = time.Now()
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal booking draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(draft.ChatID), string(data), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store booking draft: %w", err)
	}
	return nil
}

// Clear discards the chat's draft.
func (s *RedisConversationStore) Clear(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, draftKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to clear booking draft: %w", err)
	}
	return nil
}
