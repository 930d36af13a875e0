package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// Greetings shown at the top of each role's view
const (
	UserGreeting      = "You are now connected with a supporter. Please share what's on your mind."
	SupporterGreeting = "You are now connected with a user. Please wait for them to start the conversation or greet them."
)

const maxChatMessageLength = 4000

// chatRelayUsecase implements domain.ChatRelayUsecase over a shared ChatLog
type chatRelayUsecase struct {
	log    domain.ChatLog
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	last   int64
	seeded bool
}

// NewChatRelayUsecase creates the peer chat relay.
//
// Parameters:
//   - log: shared chat log (memory or redis)
//   - logger: structured logger
//
// Returns:
//   - domain.ChatRelayUsecase implementation
func NewChatRelayUsecase(log domain.ChatLog, logger *slog.Logger) domain.ChatRelayUsecase {
	return newChatRelayUsecase(log, logger, time.Now)
}

func newChatRelayUsecase(log domain.ChatLog, logger *slog.Logger, now func() time.Time) *chatRelayUsecase {
	return &chatRelayUsecase{log: log, logger: logger, now: now}
}

// Send appends a message from a user or supporter.
//
// Timestamps are epoch milliseconds and strictly increase in append order,
// even when two sends land in the same millisecond.
func (u *chatRelayUsecase) Send(ctx context.Context, req *domain.SendChatMessageRequest) (*entity.ChatMessage, error) {
	if req == nil || strings.TrimSpace(req.Text) == "" {
		return nil, domain.NewInvalidInputError(domain.MsgInvalidInput)
	}
	if !req.Sender.Valid() {
		return nil, domain.NewInvalidInputError("sender must be 'user' or 'supporter'")
	}
	if len(req.Text) > maxChatMessageLength {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("message too long (max %d characters)", maxChatMessageLength))
	}

	name := strings.TrimSpace(req.SenderName)
	if name == "" {
		name = defaultSenderName(req.Sender)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.seeded {
		if err := u.seedLocked(ctx); err != nil {
			return nil, err
		}
	}

	ts := u.now().UnixMilli()
	if ts <= u.last {
		ts = u.last + 1
	}

	msg := &entity.ChatMessage{
		ID:         fmt.Sprintf("msg-%s-%d-%s", req.Sender, ts, uuid.New().String()[:5]),
		Text:       req.Text,
		Sender:     req.Sender,
		Timestamp:  ts,
		SenderName: name,
	}
	if err := u.log.Append(ctx, msg); err != nil {
		return nil, domain.NewUnavailableError("chat log", err)
	}
	u.last = ts

	u.logger.InfoContext(ctx, "chat message appended",
		"message_id", msg.ID,
		"sender", msg.Sender,
		"text_len", len(msg.Text),
	)
	return msg, nil
}

// seedLocked picks up the newest stored timestamp so a restarted server
// keeps the ordering of an existing log
func (u *chatRelayUsecase) seedLocked(ctx context.Context) error {
	msgs, err := u.log.List(ctx)
	if err != nil {
		return domain.NewUnavailableError("chat log", err)
	}
	for _, m := range msgs {
		if m.Timestamp > u.last {
			u.last = m.Timestamp
		}
	}
	u.seeded = true
	return nil
}

// History implements domain.ChatRelayUsecase
func (u *chatRelayUsecase) History(ctx context.Context, viewer entity.ChatSender) ([]*entity.ChatMessage, error) {
	if !viewer.Valid() {
		return nil, domain.NewInvalidInputError("role must be 'user' or 'supporter'")
	}
	msgs, err := u.log.List(ctx)
	if err != nil {
		return nil, domain.NewUnavailableError("chat log", err)
	}
	return Snapshot(viewer, msgs), nil
}

// Clear removes every stored message
func (u *chatRelayUsecase) Clear(ctx context.Context) error {
	if err := u.log.Clear(ctx); err != nil {
		return domain.NewUnavailableError("chat log", err)
	}
	u.logger.InfoContext(ctx, "chat log cleared")
	return nil
}

// Watch emits the current snapshot, then a fresh one after every change.
// The channel is closed when ctx is done or the subscription ends.
func (u *chatRelayUsecase) Watch(ctx context.Context, viewer entity.ChatSender) (<-chan []*entity.ChatMessage, error) {
	if !viewer.Valid() {
		return nil, domain.NewInvalidInputError("role must be 'user' or 'supporter'")
	}
	events, err := u.log.Subscribe(ctx)
	if err != nil {
		return nil, domain.NewUnavailableError("chat log", err)
	}

	out := make(chan []*entity.ChatMessage, 1)
	go func() {
		defer close(out)

		emit := func() bool {
			snap, err := u.History(ctx, viewer)
			if err != nil {
				u.logger.WarnContext(ctx, "failed to load chat snapshot", "error", err)
				return ctx.Err() == nil
			}
			select {
			case out <- snap:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// collapse bursts into one reload
				for drained := false; !drained; {
					select {
					case _, ok := <-events:
						if !ok {
							return
						}
					default:
						drained = true
					}
				}
				if !emit() {
					return
				}
			}
		}
	}()
	return out, nil
}

// Snapshot builds the view of a role: its greeting followed by the stored
// user and supporter messages ordered by timestamp
func Snapshot(viewer entity.ChatSender, stored []*entity.ChatMessage) []*entity.ChatMessage {
	out := make([]*entity.ChatMessage, 0, len(stored)+1)
	out = append(out, greeting(viewer))

	msgs := make([]*entity.ChatMessage, 0, len(stored))
	for _, m := range stored {
		if m == nil || !m.Sender.Valid() || m.Timestamp <= 0 {
			continue
		}
		msgs = append(msgs, m)
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp < msgs[j].Timestamp
	})
	return append(out, msgs...)
}

func greeting(viewer entity.ChatSender) *entity.ChatMessage {
	text := UserGreeting
	if viewer == entity.SenderSupporter {
		text = SupporterGreeting
	}
	return &entity.ChatMessage{
		ID:        "system-" + string(viewer),
		Text:      text,
		Sender:    entity.SenderSystem,
		Timestamp: 0,
	}
}

func defaultSenderName(s entity.ChatSender) string {
	if s == entity.SenderSupporter {
		return "Supporter"
	}
	return "You"
}
