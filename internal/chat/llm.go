package chat

import (
	"context"
	"fmt"
	"strings"

	"gourmet/internal/models"
	"gourmet/internal/models/providers"

	"github.com/tmc/langchaingo/prompts"
)

// WhatsAppContact is the number customers are pointed to when the assistant cannot help
const WhatsAppContact = "+1 (555) GOURMET-AI"

// ServiceFallback is returned by the completion endpoint when the model fails
const ServiceFallback = "I encountered an unexpected issue. Please try again later. " +
	"If the problem persists, you can contact us on WhatsApp at " + WhatsAppContact + "."

const systemTemplate = `You are an AI assistant for a restaurant called GourmetAI.
You help customers with menu recommendations, taking orders, and answering questions about the restaurant.

Restaurant Information:
- Hours: Mon-Thu 11am-10pm, Fri-Sun 11am-11pm
- Location: 123 Gourmet Street, Culinary District
- Delivery: Available within 5-mile radius, 30-45 min delivery time
- Special Features: AI-powered recommendations, real-time order tracking

Current Menu Categories:
- Starters
- Main Courses
- Desserts
- Drinks

When making recommendations:
- Consider dietary preferences
- Suggest popular items
- Mention ingredient combinations
- Include wine pairings for main courses

Keep responses:
- Friendly and professional
- Concise but informative
- Focused on helping the customer

Fallback Instructions:
If a customer asks something outside what is described above, such as complex complaints, dietary needs you have no information for, or topics unrelated to the restaurant, you MUST:
1. Politely state that you are unable to assist with that specific query.
2. Provide the following WhatsApp number to reach a human representative: {{.whatsapp}}.
3. For example: "I'm sorry, I'm not able to help with that particular request. For further assistance, please contact our team on WhatsApp at {{.whatsapp}}."
Do NOT invent answers for topics you are not trained on or are uncertain about.

Current conversation history: {{.chat_history}}
Customer message: {{.input}}`

// LLMCompleter renders the restaurant prompt and sends it to an LLM provider
type LLMCompleter struct {
	provider providers.Provider
	template prompts.PromptTemplate
}

// NewLLMCompleter creates a completer over provider
func NewLLMCompleter(provider providers.Provider) *LLMCompleter {
	template := prompts.NewPromptTemplate(systemTemplate, []string{"chat_history", "input"})
	template.PartialVariables = map[string]any{"whatsapp": WhatsAppContact}
	return &LLMCompleter{
		provider: provider,
		template: template,
	}
}

// Complete implements Completer
func (c *LLMCompleter) Complete(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	return c.Reply(ctx, ToMessages(history, message))
}

// Reply answers the last message of a role/content conversation. The earlier
// messages are folded into the prompt as history.
func (c *LLMCompleter) Reply(ctx context.Context, messages []providers.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: no messages", ErrCompletion)
	}

	prompt, err := c.Render(messages[:len(messages)-1], messages[len(messages)-1].Content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}

	reply, err := c.provider.Complete(ctx, []providers.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("%w: empty response", ErrCompletion)
	}
	return reply, nil
}

// Render formats the system prompt for the given history and input
func (c *LLMCompleter) Render(history []providers.Message, input string) (string, error) {
	lines := make([]string, len(history))
	for i, m := range history {
		speaker := "AI"
		if m.Role == "user" {
			speaker = "Customer"
		}
		lines[i] = speaker + ": " + m.Content
	}

	prompt, err := c.template.Format(map[string]any{
		"chat_history": strings.Join(lines, "\n"),
		"input":        input,
	})
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}
	return prompt, nil
}
