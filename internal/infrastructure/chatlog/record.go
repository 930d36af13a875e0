package chatlog

import (
	"github.com/bytedance/sonic"

	"github.com/theshubhamgundu/sahaaya/internal/domain/entity"
)

// messageRecord is the stored form of a chat message
type messageRecord struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Sender     string `json:"sender"`
	Timestamp  int64  `json:"timestamp"`
	SenderName string `json:"senderName,omitempty"`
}

// eventRecord is published on every change of the log
type eventRecord struct {
	Type    string         `json:"type"`
	Message *messageRecord `json:"message,omitempty"`
}

func toRecord(m *entity.ChatMessage) *messageRecord {
	if m == nil {
		return nil
	}
	return &messageRecord{
		ID:         m.ID,
		Text:       m.Text,
		Sender:     string(m.Sender),
		Timestamp:  m.Timestamp,
		SenderName: m.SenderName,
	}
}

func toEntity(r *messageRecord) *entity.ChatMessage {
	if r == nil {
		return nil
	}
	return &entity.ChatMessage{
		ID:         r.ID,
		Text:       r.Text,
		Sender:     entity.ChatSender(r.Sender),
		Timestamp:  r.Timestamp,
		SenderName: r.SenderName,
	}
}

func encodeMessage(m *entity.ChatMessage) (string, error) {
	return sonic.MarshalString(toRecord(m))
}

func decodeMessage(data string) (*entity.ChatMessage, error) {
	var r messageRecord
	if err := sonic.UnmarshalString(data, &r); err != nil {
		return nil, err
	}
	return toEntity(&r), nil
}

func encodeEvent(e entity.ChatEvent) (string, error) {
	return sonic.MarshalString(eventRecord{Type: string(e.Type), Message: toRecord(e.Message)})
}

func decodeEvent(data string) (entity.ChatEvent, error) {
	var r eventRecord
	if err := sonic.UnmarshalString(data, &r); err != nil {
		return entity.ChatEvent{}, err
	}
	return entity.ChatEvent{Type: entity.ChatEventType(r.Type), Message: toEntity(r.Message)}, nil
}

func cloneMessage(m *entity.ChatMessage) *entity.ChatMessage {
	c := *m
	return &c
}
