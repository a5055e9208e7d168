package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gourmet/internal/models"
	"gourmet/internal/models/providers"
)

// CompletionRequest is the body posted to a completion endpoint
type CompletionRequest struct {
	Messages []providers.Message `json:"messages"`
}

// CompletionResponse is the body a completion endpoint answers with
type CompletionResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// HTTPCompleter calls a remote completion endpoint
type HTTPCompleter struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPCompleter creates a completer posting to endpoint. A zero timeout
// falls back to 30 seconds.
func NewHTTPCompleter(endpoint, apiKey string, timeout time.Duration) *HTTPCompleter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPCompleter{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// Complete implements Completer
func (c *HTTPCompleter) Complete(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	body, err := json.Marshal(CompletionRequest{Messages: ToMessages(history, message)})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrCompletion, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrCompletion, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: endpoint returned %d", ErrCompletion, resp.StatusCode)
	}

	var out CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrCompletion, err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", fmt.Errorf("%w: empty response", ErrCompletion)
	}
	return out.Response, nil
}
