package models

import "time"

// Sender identifies who wrote a chat message
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ChatMessage represents a single entry in the assistant transcript
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Role maps the transcript sender onto the completion API role.
func (m ChatMessage) Role() string {
	if m.Sender == SenderUser {
		return "user"
	}
	return "assistant"
}
