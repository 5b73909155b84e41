// Package anthropic adapts the Anthropic Messages API to the
// llmbackend.Backend interface.
package anthropic

import (
	"context"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	"storyforge/internal/llmbackend"
	"storyforge/internal/types"
)

const defaultMaxTokens int64 = 2048

// Client is a llmbackend.Backend backed by the Anthropic Messages API.
type Client struct {
	sdk       anthropic.Client
	model     string
	maxTokens int64
}

// New constructs a Client. An empty model falls back to
// anthropic.ModelClaude3_7SonnetLatest.
func New(apiKey, model string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(apiKey))}
	m := strings.TrimSpace(model)
	if m == "" {
		m = string(anthropic.ModelClaude3_7SonnetLatest)
	}
	return &Client{
		sdk:       anthropic.NewClient(opts...),
		model:     m,
		maxTokens: defaultMaxTokens,
	}
}

// DecideNextAction asks the model for the next navigation Decision.
func (c *Client) DecideNextAction(ctx context.Context, prompt string) (*types.Decision, error) {
	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return llmbackend.DecodeDecision(text)
}

// SynthesizeArtifact asks the model to synthesize the final test Artifact.
func (c *Client) SynthesizeArtifact(ctx context.Context, prompt string) (*types.Artifact, error) {
	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return llmbackend.DecodeArtifact(text)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	start := time.Now()
	resp, err := c.sdk.Messages.New(ctx, params)
	dur := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Dur("duration", dur).Msg("anthropic_backend_error")
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	log.Debug().Str("model", c.model).Dur("duration", dur).Msg("anthropic_backend_ok")
	return sb.String(), nil
}
