// Package openai adapts the OpenAI Chat Completions API to the
// llmbackend.Backend interface.
package openai

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/param"
	"github.com/rs/zerolog/log"

	"storyforge/internal/llmbackend"
	"storyforge/internal/types"
)

const (
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 2048
	defaultTemp      = 0.2
)

// Client is a llmbackend.Backend backed by the OpenAI Chat Completions API.
type Client struct {
	sdk   openai.Client
	model string
}

// New constructs a Client. An empty model falls back to defaultModel; an
// empty baseURL uses the SDK default endpoint.
func New(apiKey, baseURL, model string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(apiKey))}
	if b := strings.TrimSpace(baseURL); b != "" {
		opts = append(opts, option.WithBaseURL(b))
	}
	m := strings.TrimSpace(model)
	if m == "" {
		m = defaultModel
	}
	return &Client{sdk: openai.NewClient(opts...), model: m}
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
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: param.NewOpt(defaultTemp),
		MaxTokens:   param.NewOpt(int64(defaultMaxTokens)),
	}

	start := time.Now()
	resp, err := c.sdk.Chat.Completions.New(ctx, params)
	dur := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Dur("duration", dur).Msg("openai_backend_error")
		return "", err
	}
	if len(resp.Choices) == 0 {
		log.Warn().Str("model", c.model).Msg("openai_backend_no_choices")
		return "", nil
	}
	log.Debug().Str("model", c.model).Dur("duration", dur).Msg("openai_backend_ok")
	return resp.Choices[0].Message.Content, nil
}
