package provider

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// Anthropic is the vendor-direct provider variant backed by the official
// anthropic-sdk-go.
type Anthropic struct {
	client  sdk.Client
	model   string
	baseURL string
}

// AnthropicOption configures the client.
type AnthropicOption func(*Anthropic)

// WithAnthropicModel overrides the default model.
func WithAnthropicModel(model string) AnthropicOption {
	return func(a *Anthropic) {
		if model != "" {
			a.model = model
		}
	}
}

// WithAnthropicBaseURL points the SDK at a different endpoint, such as a
// gateway or a test server. The configured API key still applies.
func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(a *Anthropic) {
		a.baseURL = url
	}
}

// NewAnthropic creates the Anthropic-backed provider. The SDK client is
// built once, after all options apply.
func NewAnthropic(apiKey string, opts ...AnthropicOption) *Anthropic {
	a := &Anthropic{model: defaultAnthropicModel}
	for _, o := range opts {
		o(a)
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if a.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(a.baseURL))
	}
	a.client = sdk.NewClient(clientOpts...)
	return a
}

// Compose implements Provider with a single messages call.
func (a *Anthropic) Compose(ctx context.Context, req ComposeRequest) (*ComposeResult, error) {
	msg, err := a.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(a.model),
		MaxTokens: 1024,
		System: []sdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(userMessage(req))),
		},
		Temperature: sdk.Float(0),
	})
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: create message")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, eris.New("anthropic: response has no text content")
	}

	return parseResult(sb.String()), nil
}
