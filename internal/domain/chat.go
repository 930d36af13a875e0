package domain

import (
	"context"

	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// SendChatMessageRequest is an append to the peer chat log
type SendChatMessageRequest struct {
	Text       string
	Sender     entity.ChatSender
	SenderName string
}

// ChatLog is the shared append-only peer chat log
type ChatLog interface {
	// Append stores msg at the end of the log and notifies subscribers
	Append(ctx context.Context, msg *entity.ChatMessage) error

	// List returns every stored message in append order
	List(ctx context.Context) ([]*entity.ChatMessage, error)

	// Clear removes the whole log and notifies subscribers
	Clear(ctx context.Context) error

	// Subscribe delivers change events until ctx is cancelled; the channel is closed afterwards
	Subscribe(ctx context.Context) (<-chan entity.ChatEvent, error)

	Ping(ctx context.Context) error
}

// ChatRelayUsecase simulates a two-party live chat over the shared log
type ChatRelayUsecase interface {
	Send(ctx context.Context, req *SendChatMessageRequest) (*entity.ChatMessage, error)

	// History returns the view of the given role: its greeting followed by
	// the stored messages ordered by timestamp
	History(ctx context.Context, viewer entity.ChatSender) ([]*entity.ChatMessage, error)

	Clear(ctx context.Context) error

	// Watch emits a fresh History snapshot after every change of the log
	Watch(ctx context.Context, viewer entity.ChatSender) (<-chan []*entity.ChatMessage, error)
}

// GameUsecase plays tic-tac-toe against a random opponent
type GameUsecase interface {
	Move(ctx context.Context, board entity.TicTacToeBoard, index int) (*entity.TicTacToeGame, error)
}
