package mocks

import (
	"context"
	"sync"

	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// MockPromptLogRepository is a mock implementation of domain.PromptLogRepository
type MockPromptLogRepository struct {
	RecordFunc func(ctx context.Context, entry *entity.PromptLogEntry) error
	PingFunc   func(ctx context.Context) error

	mu      sync.Mutex
	entries []*entity.PromptLogEntry
}

// Record mocks the Record method and keeps successful entries
func (m *MockPromptLogRepository) Record(ctx context.Context, entry *entity.PromptLogEntry) error {
	if m.RecordFunc != nil {
		if err := m.RecordFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.entries = append(m.entries, entry)
	m.mu.Unlock()
	return nil
}

// Ping mocks the Ping method
func (m *MockPromptLogRepository) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Entries returns the recorded entries
func (m *MockPromptLogRepository) Entries() []*entity.PromptLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.PromptLogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// MockSignSessionStore is a mock implementation of domain.SignSessionStore
type MockSignSessionStore struct {
	AppendFunc func(ctx context.Context, sessionID string, turns ...entity.SignTurn) error
	RecentFunc func(ctx context.Context, sessionID string, n int) ([]entity.SignTurn, error)
	DeleteFunc func(ctx context.Context, sessionID string) error
}

// Append mocks the Append method
func (m *MockSignSessionStore) Append(ctx context.Context, sessionID string, turns ...entity.SignTurn) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, sessionID, turns...)
	}
	return nil
}

// Recent mocks the Recent method
func (m *MockSignSessionStore) Recent(ctx context.Context, sessionID string, n int) ([]entity.SignTurn, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, sessionID, n)
	}
	return nil, nil
}

// Delete mocks the Delete method
func (m *MockSignSessionStore) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	return nil
}
