package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"gourmet/internal/models"
	"gourmet/internal/models/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProvider is a mock implementation of providers.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Complete(ctx context.Context, messages []providers.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) SetTemperature(temp float32) {}

func (m *MockProvider) SetMaxTokens(tokens int32) {}

func newTestAssistant(c Completer) *Assistant {
	return NewAssistant(c, zap.NewNop().Sugar())
}

func TestAssistantStartsWithGreeting(t *testing.T) {
	a := newTestAssistant(CompleterFunc(func(context.Context, []models.ChatMessage, string) (string, error) {
		return "unused", nil
	}))

	msgs := a.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Greeting, msgs[0].Content)
	assert.Equal(t, models.SenderAI, msgs[0].Sender)
}

func TestAssistantSendAppendsReply(t *testing.T) {
	var gotHistory []models.ChatMessage
	a := newTestAssistant(CompleterFunc(func(_ context.Context, history []models.ChatMessage, msg string) (string, error) {
		gotHistory = history
		assert.Equal(t, "Any vegetarian mains?", msg)
		return "Try the Wild Mushroom Risotto.", nil
	}))

	reply := a.Send(context.Background(), "Any vegetarian mains?")

	assert.Equal(t, "Try the Wild Mushroom Risotto.", reply.Content)
	require.Len(t, gotHistory, 1, "history excludes the new message")
	msgs := a.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, models.SenderUser, msgs[1].Sender)
	assert.Equal(t, "Any vegetarian mains?", msgs[1].Content)
	assert.Equal(t, reply.ID, msgs[2].ID)
}

func TestAssistantFallbackOnFailure(t *testing.T) {
	a := newTestAssistant(CompleterFunc(func(context.Context, []models.ChatMessage, string) (string, error) {
		return "", errors.New("boom")
	}))

	reply := a.Send(context.Background(), "hello")

	assert.Equal(t, Fallback, reply.Content)
	assert.Len(t, a.Messages(), 3)
}

func TestAssistantClear(t *testing.T) {
	a := newTestAssistant(CompleterFunc(func(context.Context, []models.ChatMessage, string) (string, error) {
		return "ok", nil
	}))
	a.Send(context.Background(), "hello")

	a.Clear()

	msgs := a.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, Greeting, msgs[0].Content)
}

func TestAssistantDoesNotHoldLockDuringCompletion(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	a := newTestAssistant(CompleterFunc(func(context.Context, []models.ChatMessage, string) (string, error) {
		close(started)
		<-release
		return "done", nil
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Send(context.Background(), "slow question")
	}()

	<-started
	assert.Len(t, a.Messages(), 2, "transcript readable while the completer runs")
	close(release)
	wg.Wait()
	assert.Len(t, a.Messages(), 3)
}

func TestHTTPCompleterSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		var req CompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "assistant", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "What's popular?", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(CompletionResponse{Response: "The Filet Mignon."})
	}))
	defer server.Close()

	c := NewHTTPCompleter(server.URL, "anon-key", time.Second)
	history := []models.ChatMessage{{Content: Greeting, Sender: models.SenderAI}}

	got, err := c.Complete(context.Background(), history, "What's popular?")

	require.NoError(t, err)
	assert.Equal(t, "The Filet Mignon.", got)
}

func TestHTTPCompleterFailures(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"malformed body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		},
		"empty response": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"response": "  "}`))
		},
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			_, err := NewHTTPCompleter(server.URL, "", time.Second).Complete(context.Background(), nil, "hi")
			assert.ErrorIs(t, err, ErrCompletion)
		})
	}
}

func TestHTTPServerErrorAppendsFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	a := newTestAssistant(NewHTTPCompleter(server.URL, "", time.Second))
	a.Send(context.Background(), "Do you deliver?")

	msgs := a.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, Fallback, msgs[2].Content)
	assert.Equal(t, models.SenderAI, msgs[2].Sender)
}

func TestLLMCompleterRendersPrompt(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.MatchedBy(func(msgs []providers.Message) bool {
		if len(msgs) != 1 {
			return false
		}
		p := msgs[0].Content
		return strings.Contains(p, "GourmetAI") &&
			strings.Contains(p, WhatsAppContact) &&
			strings.Contains(p, "AI: "+Greeting) &&
			strings.Contains(p, "Customer: I like spicy food") &&
			strings.HasSuffix(p, "Customer message: Which main?")
	})).Return("The Filet Mignon pairs well.", nil)

	c := NewLLMCompleter(provider)
	history := []models.ChatMessage{
		{Content: Greeting, Sender: models.SenderAI},
		{Content: "I like spicy food", Sender: models.SenderUser},
	}

	got, err := c.Complete(context.Background(), history, "Which main?")

	require.NoError(t, err)
	assert.Equal(t, "The Filet Mignon pairs well.", got)
	provider.AssertExpectations(t)
}

func TestLLMCompleterWrapsProviderError(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	_, err := NewLLMCompleter(provider).Reply(context.Background(), []providers.Message{{Role: "user", Content: "hi"}})

	assert.ErrorIs(t, err, ErrCompletion)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestLLMCompleterRejectsEmptyConversation(t *testing.T) {
	_, err := NewLLMCompleter(new(MockProvider)).Reply(context.Background(), nil)
	assert.ErrorIs(t, err, ErrCompletion)
}
