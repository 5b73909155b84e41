// Package llmbackend defines the narrow LLM surface the Navigation Loop
// and Artifact Synthesizer depend on, satisfied by two concrete
// adapters (internal/llmbackend/anthropic, internal/llmbackend/openai).
package llmbackend

import (
	"context"

	"storyforge/internal/types"
)

// Backend decides the next navigation action and synthesizes the final
// test artifact. A nil Decision/Artifact with a nil error is the "LLM
// returned null" case and must be treated identically to an absent
// transport error by callers.
type Backend interface {
	DecideNextAction(ctx context.Context, prompt string) (*types.Decision, error)
	SynthesizeArtifact(ctx context.Context, prompt string) (*types.Artifact, error)
}
