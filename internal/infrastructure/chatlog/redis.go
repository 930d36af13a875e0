package chatlog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// RedisLog keeps the chat log in a Redis list and announces changes on a
// pub/sub channel, so several server instances share one conversation.
type RedisLog struct {
	rdb         *redis.Client
	key         string
	channel     string
	maxMessages int
	logger      *slog.Logger
}

var _ domain.ChatLog = (*RedisLog)(nil)

// NewRedisLog creates a Redis-backed log
func NewRedisLog(rdb *redis.Client, key, channel string, maxMessages int, logger *slog.Logger) *RedisLog {
	return &RedisLog{
		rdb:         rdb,
		key:         key,
		channel:     channel,
		maxMessages: maxMessages,
		logger:      logger.With("component", "chatlog", "backend", "redis"),
	}
}

// Append implements domain.ChatLog
func (l *RedisLog) Append(ctx context.Context, msg *entity.ChatMessage) error {
	data, err := encodeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	pipe := l.rdb.TxPipeline()
	pipe.RPush(ctx, l.key, data)
	if l.maxMessages > 0 {
		pipe.LTrim(ctx, l.key, int64(-l.maxMessages), -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}

	l.publish(ctx, entity.ChatEvent{Type: entity.ChatEventAppended, Message: msg})
	return nil
}

// List implements domain.ChatLog. Entries that fail to decode are skipped.
func (l *RedisLog) List(ctx context.Context) ([]*entity.ChatMessage, error) {
	items, err := l.rdb.LRange(ctx, l.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	out := make([]*entity.ChatMessage, 0, len(items))
	for _, item := range items {
		msg, err := decodeMessage(item)
		if err != nil {
			l.logger.WarnContext(ctx, "skipping malformed chat message", "error", err)
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

// Clear implements domain.ChatLog
func (l *RedisLog) Clear(ctx context.Context) error {
	if err := l.rdb.Del(ctx, l.key).Err(); err != nil {
		return fmt.Errorf("failed to clear chat log: %w", err)
	}
	l.publish(ctx, entity.ChatEvent{Type: entity.ChatEventCleared})
	return nil
}

// Subscribe implements domain.ChatLog
func (l *RedisLog) Subscribe(ctx context.Context) (<-chan entity.ChatEvent, error) {
	pubsub := l.rdb.Subscribe(ctx, l.channel)
	// wait for the subscription confirmation so no event is missed after return
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", l.channel, err)
	}

	out := make(chan entity.ChatEvent, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				e, err := decodeEvent(m.Payload)
				if err != nil {
					l.logger.WarnContext(ctx, "skipping malformed chat event", "error", err)
					continue
				}
				select {
				case out <- e:
				default:
				}
			}
		}
	}()
	return out, nil
}

// Ping implements domain.ChatLog
func (l *RedisLog) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}

// publish announces a change; a lost notification only delays watchers
func (l *RedisLog) publish(ctx context.Context, e entity.ChatEvent) {
	payload, err := encodeEvent(e)
	if err != nil {
		l.logger.WarnContext(ctx, "failed to marshal chat event", "error", err)
		return
	}
	if err := l.rdb.Publish(ctx, l.channel, payload).Err(); err != nil {
		l.logger.WarnContext(ctx, "failed to publish chat event", "error", err)
	}
}
