package mocks

import (
	"context"
	"sync"

	"github.com/theshubhamgundu/sahaaya/internal/domain"
)

// MockModelClient is a mock implementation of domain.ModelClient
type MockModelClient struct {
	GenerateFunc func(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error)

	mu       sync.Mutex
	requests []*domain.GenerateRequest
}

// Generate mocks the Generate method and records the request
func (m *MockModelClient) Generate(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &domain.GenerateResponse{Text: "{}", Model: "mock"}, nil
}

// Name mocks the Name method
func (m *MockModelClient) Name() string {
	return "mock"
}

// Requests returns the recorded requests
func (m *MockModelClient) Requests() []*domain.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.GenerateRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// ReplyWith returns a GenerateFunc answering every request with text
func ReplyWith(text string) func(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	return func(ctx context.Context, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
		return &domain.GenerateResponse{Text: text, Model: "mock"}, nil
	}
}
