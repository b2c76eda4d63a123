// Package cleanup reformats raw OCR text into Markdown using an OpenAI
// chat completion. With no API key configured the cleaner is disabled and
// passes text through unchanged.
package cleanup

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultModel is the cleanup model used when OPENAI_MODEL is not set
const DefaultModel = "gpt-4.1-mini"

// Cleaner sends OCR text to a chat-completion model for Markdown cleanup
type Cleaner struct {
	client  *openai.Client
	model   string
	baseURL string
}

// Option configures the Cleaner
type Option func(*Cleaner)

// WithModel sets the cleanup model
func WithModel(model string) Option {
	return func(c *Cleaner) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL sets a custom API base URL (for testing)
func WithBaseURL(baseURL string) Option {
	return func(c *Cleaner) {
		c.baseURL = baseURL
	}
}

// New creates a Cleaner. An empty API key returns a disabled cleaner whose
// Clean is the identity function.
func New(apiKey string, opts ...Option) *Cleaner {
	c := &Cleaner{model: DefaultModel}
	for _, opt := range opts {
		opt(c)
	}

	if apiKey == "" {
		return c
	}

	// Single call, no SDK retries; remote failures surface immediately.
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(c.baseURL))
	}
	client := openai.NewClient(reqOpts...)
	c.client = &client
	return c
}

// NewFromEnv creates a Cleaner from OPENAI_API_KEY, OPENAI_MODEL and
// OPENAI_BASE_URL. An unset key disables cleanup.
func NewFromEnv(opts ...Option) *Cleaner {
	envOpts := []Option{
		WithModel(os.Getenv("OPENAI_MODEL")),
		WithBaseURL(os.Getenv("OPENAI_BASE_URL")),
	}
	return New(os.Getenv("OPENAI_API_KEY"), append(envOpts, opts...)...)
}

// Enabled reports whether a remote cleanup call will be made
func (c *Cleaner) Enabled() bool {
	return c.client != nil
}

// Model returns the configured cleanup model
func (c *Cleaner) Model() string {
	return c.model
}

// Clean reformats raw OCR text into Markdown. A disabled cleaner returns
// the input unchanged without a network call.
func (c *Cleaner) Clean(ctx context.Context, rawText string) (string, error) {
	if c.client == nil {
		return rawText, nil
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(buildPrompt(rawText)),
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("cleanup request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from cleanup model")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildPrompt embeds the raw OCR text in the fixed cleanup instructions
func buildPrompt(rawText string) string {
	return "You are cleaning OCR output from handwritten notebook pages.\n" +
		"Rules:\n" +
		"- Preserve meaning; do not invent details.\n" +
		"- Fix obvious OCR artifacts (broken words, random line breaks).\n" +
		"- Keep original ordering.\n" +
		"- Output as Markdown.\n" +
		"- If a date is present, put it as a top-level heading.\n" +
		"- Use bullets where appropriate.\n\n" +
		"OCR TEXT:\n" +
		rawText
}

// CheckConfig reports whether cleanup is configured. Cleanup is optional,
// so an unset key is not an error; callers use this for display only.
func CheckConfig() bool {
	return os.Getenv("OPENAI_API_KEY") != ""
}
