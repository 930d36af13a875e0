package session

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

type turnRecord struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// RedisStore keeps each session as a capped Redis list with a sliding TTL
type RedisStore struct {
	rdb      *redis.Client
	prefix   string
	ttl      time.Duration
	maxTurns int
}

var _ domain.SignSessionStore = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration, maxTurns int) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl, maxTurns: maxTurns}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Append implements domain.SignSessionStore
func (s *RedisStore) Append(ctx context.Context, sessionID string, turns ...entity.SignTurn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]any, 0, len(turns))
	for _, t := range turns {
		data, err := sonic.MarshalString(turnRecord{Sender: string(t.Sender), Text: t.Text})
		if err != nil {
			return fmt.Errorf("failed to marshal sign turn: %w", err)
		}
		values = append(values, data)
	}

	key := s.key(sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	if s.maxTurns > 0 {
		pipe.LTrim(ctx, key, int64(-s.maxTurns), -1)
	}
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save sign session: %w", err)
	}
	return nil
}

// Recent implements domain.SignSessionStore
func (s *RedisStore) Recent(ctx context.Context, sessionID string, n int) ([]entity.SignTurn, error) {
	if n <= 0 {
		return []entity.SignTurn{}, nil
	}
	items, err := s.rdb.LRange(ctx, s.key(sessionID), int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load sign session: %w", err)
	}

	out := make([]entity.SignTurn, 0, len(items))
	for _, item := range items {
		var r turnRecord
		if err := sonic.UnmarshalString(item, &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sign turn: %w", err)
		}
		out = append(out, entity.SignTurn{Sender: entity.SignTurnSender(r.Sender), Text: r.Text})
	}
	return out, nil
}

// Delete implements domain.SignSessionStore
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete sign session: %w", err)
	}
	return nil
}
