package llmbackend

import (
	"encoding/json"
	"strings"

	"storyforge/internal/mcpparse"
	"storyforge/internal/types"
)

// DecodeDecision parses a raw LLM completion into a Decision, reusing the
// Response Parser's lossless-safe-parse so a completion wrapped in prose
// or a fenced code block still yields structured output. An empty or
// unparseable completion decodes to nil, signalling "LLM returned null."
func DecodeDecision(raw string) (*types.Decision, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed := mcpparse.SafeParse(raw, nil)
	m, ok := parsed.(map[string]any)
	if !ok {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil
	}
	var d types.Decision
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, nil
	}
	if strings.TrimSpace(d.Action) == "" {
		return nil, nil
	}
	return &d, nil
}

// DecodeArtifact parses a raw LLM completion into an Artifact, same
// approach as DecodeDecision.
func DecodeArtifact(raw string) (*types.Artifact, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed := mcpparse.SafeParse(raw, nil)
	m, ok := parsed.(map[string]any)
	if !ok {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil
	}
	var a types.Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, nil
	}
	return &a, nil
}
