package entity

// ChatSender is the author role of a peer chat message
type ChatSender string

const (
	SenderUser      ChatSender = "user"
	SenderSupporter ChatSender = "supporter"
	SenderSystem    ChatSender = "system"
)

// Valid reports whether s may author stored messages
func (s ChatSender) Valid() bool {
	return s == SenderUser || s == SenderSupporter
}

// ChatMessage is one entry of the peer chat log.
// Stored messages always carry Timestamp > 0 (epoch milliseconds).
type ChatMessage struct {
	ID         string
	Text       string
	Sender     ChatSender
	Timestamp  int64
	SenderName string
}

// ChatEventType describes a change of the shared chat log
type ChatEventType string

const (
	ChatEventAppended ChatEventType = "appended"
	ChatEventCleared  ChatEventType = "cleared"
)

// ChatEvent notifies subscribers that the log changed
type ChatEvent struct {
	Type    ChatEventType
	Message *ChatMessage
}
