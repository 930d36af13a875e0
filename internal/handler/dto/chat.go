package dto

import (
	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// SendChatMessageRequest is the body of POST /api/chat/messages
type SendChatMessageRequest struct {
	Text       string `json:"text"`
	Sender     string `json:"sender"`
	SenderName string `json:"senderName,omitempty"`
}

// ChatMessage is one entry of a chat view
type ChatMessage struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Sender     string `json:"sender"`
	Timestamp  int64  `json:"timestamp"`
	SenderName string `json:"senderName,omitempty"`
}

// ChatMessagesResponse is a role's view of the chat
type ChatMessagesResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// ToChatMessage converts entity to response DTO
func ToChatMessage(m *entity.ChatMessage) ChatMessage {
	return ChatMessage{
		ID:         m.ID,
		Text:       m.Text,
		Sender:     string(m.Sender),
		Timestamp:  m.Timestamp,
		SenderName: m.SenderName,
	}
}

// ToChatMessagesResponse converts a snapshot to response DTO
func ToChatMessagesResponse(msgs []*entity.ChatMessage) ChatMessagesResponse {
	out := ChatMessagesResponse{Messages: make([]ChatMessage, 0, len(msgs))}
	for _, m := range msgs {
		out.Messages = append(out.Messages, ToChatMessage(m))
	}
	return out
}
