package providers

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// GitHubModelsBaseURL is the OpenAI-compatible endpoint of GitHub Models
const GitHubModelsBaseURL = "https://models.inference.ai.azure.com"

// LangChainProvider implements the Provider interface on top of a langchaingo model
type LangChainProvider struct {
	model       llms.Model
	modelName   string
	temperature float32
	maxTokens   int32
}

// NewLangChainProvider wraps an existing langchaingo model
func NewLangChainProvider(model llms.Model, modelName string) *LangChainProvider {
	return &LangChainProvider{
		model:       model,
		modelName:   modelName,
		temperature: 0.7,
		maxTokens:   1024,
	}
}

// NewOpenAIProvider creates a provider backed by the OpenAI API, or any
// OpenAI-compatible API when cfg.BaseURL is set
func NewOpenAIProvider(cfg Config) (*LangChainProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai provider: api key is required")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	p := NewLangChainProvider(client, cfg.Model)
	p.applyTuning(cfg)
	return p, nil
}

// NewGitHubModelsProvider creates an OpenAI provider pointed at GitHub Models
func NewGitHubModelsProvider(cfg Config) (*LangChainProvider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = GitHubModelsBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return NewOpenAIProvider(cfg)
}

// Complete implements the Provider interface
func (p *LangChainProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	content := make([]llms.MessageContent, len(messages))
	for i, msg := range messages {
		var msgType schema.ChatMessageType
		switch msg.Role {
		case "system":
			msgType = schema.ChatMessageTypeSystem
		case "assistant", "ai":
			msgType = schema.ChatMessageTypeAI
		default:
			msgType = schema.ChatMessageTypeHuman
		}
		content[i] = llms.TextParts(msgType, msg.Content)
	}

	opts := []llms.CallOption{
		llms.WithTemperature(float64(p.temperature)),
		llms.WithMaxTokens(int(p.maxTokens)),
	}
	if p.modelName != "" {
		opts = append(opts, llms.WithModel(p.modelName))
	}

	resp, err := p.model.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Content, nil
}

// SetTemperature sets the temperature for completions
func (p *LangChainProvider) SetTemperature(temp float32) {
	p.temperature = temp
}

// SetMaxTokens sets the max tokens for completions
func (p *LangChainProvider) SetMaxTokens(tokens int32) {
	p.maxTokens = tokens
}

func (p *LangChainProvider) applyTuning(cfg Config) {
	if cfg.Temperature > 0 {
		p.temperature = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		p.maxTokens = cfg.MaxTokens
	}
}
