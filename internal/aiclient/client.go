// Package aiclient wraps the OpenAI chat completion API for reply generation.
// When the API call fails the client falls back to a canned reply so the DM
// worker and the generate endpoint always have something to send.
package aiclient

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Result carries the generated text plus the metrics logged to ai_responses.
type Result struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMs        int64
	Fallback         bool
}

// Generator is what the services depend on; a stub satisfies it in tests.
type Generator interface {
	Generate(ctx context.Context, systemContext, message string) (*Result, error)
}

type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

var fallbackReplies = []string{
	"Thanks for reaching out! We'll get back to you as soon as possible.",
	"Thanks for your message! A member of our team will reply shortly.",
	"We received your message and will respond soon.",
	"Thanks for contacting us! We'll be with you shortly.",
}

func NewClient(apiKey, model string, maxTokens int, temperature float64, logger *zap.Logger) *Client {
	return &Client{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

const systemPrompt = `You are a helpful assistant replying to Instagram direct messages on behalf of a business.

Guidelines:
- Be friendly and conversational
- Keep replies short, two sentences at most
- Never invent prices, stock levels or order details
- If you cannot help, ask the customer to wait for a human reply

%s`

// Generate produces a reply for the given message. systemContext is extra
// grounding (training Q/A pairs, conversation history) appended to the system
// prompt; it may be empty.
func (c *Client) Generate(ctx context.Context, systemContext, message string) (*Result, error) {
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: fmt.Sprintf(systemPrompt, systemContext),
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: message,
				},
			},
			MaxTokens:   c.maxTokens,
			Temperature: float32(c.temperature),
		},
	)
	if err != nil {
		c.logger.Error("Failed to get completion, using fallback reply", zap.Error(err))
		return &Result{
			Text:      FallbackReply(message),
			Model:     c.model,
			LatencyMs: time.Since(start).Milliseconds(),
			Fallback:  true,
		}, nil
	}

	// The API can return 200 with no choices, for example when the prompt
	// is filtered.
	if len(resp.Choices) == 0 {
		c.logger.Warn("Completion returned no choices, using fallback reply")
		return &Result{
			Text:      FallbackReply(message),
			Model:     c.model,
			LatencyMs: time.Since(start).Milliseconds(),
			Fallback:  true,
		}, nil
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	fallback := false
	if text == "" {
		text = FallbackReply(message)
		fallback = true
	}

	return &Result{
		Text:             text,
		Model:            c.model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		LatencyMs:        time.Since(start).Milliseconds(),
		Fallback:         fallback,
	}, nil
}

// FallbackReply picks a canned reply deterministically from the message so
// repeated failures for the same message produce the same response.
func FallbackReply(message string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(message))
	return fallbackReplies[int(h.Sum32())%len(fallbackReplies)]
}
