package chat

import (
	"context"
	"sync"
	"time"

	"gourmet/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Greeting opens every transcript
const Greeting = "Hi there! I'm your restaurant assistant. How can I help you today? " +
	"You can ask about our menu, place an order, or get recommendations."

// Fallback is appended in place of a reply whenever the completer fails
const Fallback = "I apologize, but I'm having trouble processing your request right now. Please try again later."

// Assistant keeps a chat transcript and fills in assistant replies
type Assistant struct {
	mu        sync.Mutex
	messages  []models.ChatMessage
	completer Completer
	logger    *zap.SugaredLogger
}

// NewAssistant creates an assistant whose transcript starts with the greeting
func NewAssistant(completer Completer, logger *zap.SugaredLogger) *Assistant {
	a := &Assistant{
		completer: completer,
		logger:    logger,
	}
	a.messages = []models.ChatMessage{newMessage(Greeting, models.SenderAI)}
	return a
}

// Send appends text as a user message, asks the completer for a reply and
// appends it. A failed completion appends Fallback instead. The transcript
// lock is not held while the completer runs.
func (a *Assistant) Send(ctx context.Context, text string) models.ChatMessage {
	a.mu.Lock()
	history := append([]models.ChatMessage(nil), a.messages...)
	a.messages = append(a.messages, newMessage(text, models.SenderUser))
	a.mu.Unlock()

	content, err := a.completer.Complete(ctx, history, text)
	if err != nil {
		a.logger.Errorw("Chat completion failed", "error", err)
		content = Fallback
	}

	reply := newMessage(content, models.SenderAI)
	a.mu.Lock()
	a.messages = append(a.messages, reply)
	a.mu.Unlock()
	return reply
}

// Messages returns a copy of the transcript
func (a *Assistant) Messages() []models.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.ChatMessage(nil), a.messages...)
}

// Clear resets the transcript to the greeting
func (a *Assistant) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = []models.ChatMessage{newMessage(Greeting, models.SenderAI)}
}

func newMessage(content string, sender models.Sender) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
	}
}
