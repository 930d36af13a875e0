// Package chatlog stores the shared peer chat log and fans out change events.
package chatlog

import (
	"context"
	"sync"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// subscriberBuffer is the number of pending events per subscriber. Events
// beyond it are dropped; a subscriber with a pending event reloads the full
// log anyway.
const subscriberBuffer = 16

// MemoryLog is a process-local chat log
type MemoryLog struct {
	mu          sync.Mutex
	messages    []*entity.ChatMessage
	maxMessages int
	subs        map[int]chan entity.ChatEvent
	nextID      int
}

var _ domain.ChatLog = (*MemoryLog)(nil)

// NewMemoryLog creates an empty log keeping at most maxMessages entries (0 keeps all)
func NewMemoryLog(maxMessages int) *MemoryLog {
	return &MemoryLog{
		maxMessages: maxMessages,
		subs:        make(map[int]chan entity.ChatEvent),
	}
}

// Append implements domain.ChatLog
func (l *MemoryLog) Append(ctx context.Context, msg *entity.ChatMessage) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, cloneMessage(msg))
	if l.maxMessages > 0 && len(l.messages) > l.maxMessages {
		l.messages = append([]*entity.ChatMessage(nil), l.messages[len(l.messages)-l.maxMessages:]...)
	}
	l.notifyLocked(entity.ChatEvent{Type: entity.ChatEventAppended, Message: cloneMessage(msg)})
	return nil
}

// List implements domain.ChatLog
func (l *MemoryLog) List(ctx context.Context) ([]*entity.ChatMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*entity.ChatMessage, 0, len(l.messages))
	for _, m := range l.messages {
		out = append(out, cloneMessage(m))
	}
	return out, nil
}

// Clear implements domain.ChatLog
func (l *MemoryLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = nil
	l.notifyLocked(entity.ChatEvent{Type: entity.ChatEventCleared})
	return nil
}

// Subscribe implements domain.ChatLog
func (l *MemoryLog) Subscribe(ctx context.Context) (<-chan entity.ChatEvent, error) {
	ch := make(chan entity.ChatEvent, subscriberBuffer)

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		delete(l.subs, id)
		close(ch)
		l.mu.Unlock()
	}()
	return ch, nil
}

// Ping implements domain.ChatLog
func (l *MemoryLog) Ping(ctx context.Context) error {
	return nil
}

func (l *MemoryLog) notifyLocked(e entity.ChatEvent) {
	for _, ch := range l.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
