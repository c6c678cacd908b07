package domain

import "time"

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"message"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type,omitempty"` // text | quick_reply | suggestion
}

type ChatSession struct {
	ID           string        `json:"id"`
	Messages     []ChatMessage `json:"messages"`
	Context      string        `json:"context"`
	StartTime    time.Time     `json:"createdAt"`
	LastActivity time.Time     `json:"lastActivity"`
}

type QuickReply struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}
