package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

const (
	CategorySuccess = "success"
	CategoryError   = "error"
	CategoryInfo    = "info"
)

// Message is a one-shot notice queued for the next rendered page.
type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Store queues flash messages per browser. Pop returns the queued messages
// and discards them.
type Store interface {
	Push(ctx context.Context, browserID string, msg Message) error
	Pop(ctx context.Context, browserID string) ([]Message, error)
}

// RedisStore keeps each browser's pending notices in a TTL-bounded list.
type RedisStore struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewRedisStore(client *redisv9.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) Push(ctx context.Context, browserID string, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal flash message failed: %w", err)
	}

	key := s.key(browserID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis push flash failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Pop(ctx context.Context, browserID string) ([]Message, error) {
	key := s.key(browserID)

	pipe := s.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis pop flash failed: %w", err)
	}

	raw := rangeCmd.Val()
	messages := make([]Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisStore) key(browserID string) string {
	return fmt.Sprintf("flash:%s", browserID)
}
