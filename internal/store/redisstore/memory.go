package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the remote memory backend for the legacy chat endpoint: a short
// per-conversation context window kept in Redis instead of the local DB.
type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (s *Store) Close() error { return s.rdb.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// MemoryEntry is one remembered turn.
type MemoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const memoryTTL = 7 * 24 * time.Hour

func memoryKey(userID, conversationID string) string {
	return fmt.Sprintf("memory:%s:%s", userID, conversationID)
}

// AppendMemory pushes a turn onto the conversation's memory list.
func (s *Store) AppendMemory(ctx context.Context, userID, conversationID string, e MemoryEntry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	key := memoryKey(userID, conversationID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, b)
	pipe.Expire(ctx, key, memoryTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// RecentMemories returns up to limit of the newest turns, oldest first.
func (s *Store) RecentMemories(ctx context.Context, userID, conversationID string, limit int) ([]MemoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	vals, err := s.rdb.LRange(ctx, memoryKey(userID, conversationID), int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]MemoryEntry, 0, len(vals))
	for _, v := range vals {
		var e MemoryEntry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
