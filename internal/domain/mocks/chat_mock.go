package mocks

import (
	"context"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// MockChatRelayUsecase is a mock implementation of domain.ChatRelayUsecase
type MockChatRelayUsecase struct {
	SendFunc    func(ctx context.Context, req *domain.SendChatMessageRequest) (*entity.ChatMessage, error)
	HistoryFunc func(ctx context.Context, viewer entity.ChatSender) ([]*entity.ChatMessage, error)
	ClearFunc   func(ctx context.Context) error
	WatchFunc   func(ctx context.Context, viewer entity.ChatSender) (<-chan []*entity.ChatMessage, error)
}

// Send mocks the Send method
func (m *MockChatRelayUsecase) Send(ctx context.Context, req *domain.SendChatMessageRequest) (*entity.ChatMessage, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, req)
	}
	return &entity.ChatMessage{ID: "msg-test", Text: req.Text, Sender: req.Sender, Timestamp: 1}, nil
}

// History mocks the History method
func (m *MockChatRelayUsecase) History(ctx context.Context, viewer entity.ChatSender) ([]*entity.ChatMessage, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, viewer)
	}
	return []*entity.ChatMessage{}, nil
}

// Clear mocks the Clear method
func (m *MockChatRelayUsecase) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}

// Watch mocks the Watch method
func (m *MockChatRelayUsecase) Watch(ctx context.Context, viewer entity.ChatSender) (<-chan []*entity.ChatMessage, error) {
	if m.WatchFunc != nil {
		return m.WatchFunc(ctx, viewer)
	}
	ch := make(chan []*entity.ChatMessage)
	close(ch)
	return ch, nil
}

// MockGameUsecase is a mock implementation of domain.GameUsecase
type MockGameUsecase struct {
	MoveFunc func(ctx context.Context, board entity.TicTacToeBoard, index int) (*entity.TicTacToeGame, error)
}

// Move mocks the Move method
func (m *MockGameUsecase) Move(ctx context.Context, board entity.TicTacToeBoard, index int) (*entity.TicTacToeGame, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, board, index)
	}
	board[index] = entity.MarkX
	return &entity.TicTacToeGame{Board: board, Next: entity.MarkX, AIMove: -1}, nil
}
