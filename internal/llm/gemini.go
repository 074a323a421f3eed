// Package llm holds the Gemini-backed fallback responder used when no
// deterministic rule resolves a message.
package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// systemInstruction seeds the model with the bot's supported commands so
// unresolved messages get a helpful, on-topic reply.
const systemInstruction = `You are Thuk, a friendly WhatsApp expense tracker bot.

The user sent a message that wasn't clearly understood. Help them by:
1. Acknowledging their message
2. Suggesting how they might rephrase it
3. Providing examples of supported commands

Keep responses concise and friendly. Do not use emojis.

Supported actions:
- Add expenses: "Spent 500 on food"
- Query expenses: "How much did I spend today?"
- Split payments: "2000 split with 4 people"
- Check debts: "Who owes me?"
- Settle debts: "Rahul paid me back"
- Categories: "Add category Subscriptions" or "Show my categories"
- Delete: "Delete last expense"`

// Gemini is a router fallback delegate backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a delegate for the given API key and model.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Respond sends the raw message text to the model and returns its reply
// verbatim.
func (g *Gemini) Respond(ctx context.Context, rawText string) (string, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: rawText}}},
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		Temperature:       genai.Ptr(float32(0)),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
