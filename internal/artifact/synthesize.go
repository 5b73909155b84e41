// Package artifact implements the Artifact Synthesizer: it turns a
// completed exploration trace into a {pageObject, testSteps} test
// artifact, falling back to a deterministic construction when the LLM's
// output fails validation.
package artifact

import (
	"context"
	"regexp"
	"strings"

	"storyforge/internal/llmbackend"
	"storyforge/internal/observability"
	"storyforge/internal/types"
)

var log = observability.Component("artifact")

// Synthesizer builds a Test Artifact from an ExplorationResult.
type Synthesizer struct {
	Backend llmbackend.Backend
}

// New constructs a Synthesizer over the given LLM backend.
func New(backend llmbackend.Backend) *Synthesizer {
	return &Synthesizer{Backend: backend}
}

// Synthesize builds the Test Generation Prompt, calls the backend, and
// validates the result. A nil artifact or one with empty locators/steps
// is replaced by a deterministic fallback built from the exploration
// trace itself.
func (s *Synthesizer) Synthesize(ctx context.Context, userStory []string, testPath string, result types.ExplorationResult) types.Artifact {
	className := deriveClassName(testPath)

	prompt := buildTestGenerationPrompt(userStory, result)
	artifact, err := s.Backend.SynthesizeArtifact(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("artifact_synthesis_error")
	}
	if valid(artifact) {
		return *artifact
	}
	log.Warn().Msg("artifact_invalid_falling_back_to_deterministic")
	return deterministicFallback(className, result)
}

func valid(a *types.Artifact) bool {
	return a != nil && len(a.PageObject.Locators) > 0 && len(a.TestSteps) > 0
}

// deterministicFallback builds one locator per generated selector group
// and one test step per recorded interaction step (spec §4.G fallback).
func deterministicFallback(className string, result types.ExplorationResult) types.Artifact {
	locators := make([]types.Locator, 0, len(result.GeneratedSelectors))
	for _, h := range result.GeneratedSelectors {
		locators = append(locators, types.Locator{
			Name:        strings.ReplaceAll(h.Name, " ", ""),
			ElementType: h.Role,
			Actions:     actionsFor(h.Ref, result.Steps),
			Selectors:   h.Selectors[:],
		})
	}

	steps := make([]types.TestStep, 0, len(result.Steps))
	for i, step := range result.Steps {
		action := step.Action + "Element"
		if i == 0 {
			action = types.ActionNavigate
		}
		steps = append(steps, types.TestStep{
			Page:   className,
			Action: action,
			Params: step.Params,
		})
	}

	return types.Artifact{
		PageObject: types.PageObject{ClassName: className, Locators: locators},
		TestSteps:  steps,
	}
}

func actionsFor(ref string, steps []types.InteractionStep) []string {
	var actions []string
	for _, s := range steps {
		if s.Element != nil && s.Element.Ref == ref {
			actions = append(actions, s.Action)
		}
	}
	if len(actions) == 0 {
		return []string{"observe"}
	}
	return actions
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// deriveClassName turns a test path like "/login" into "LoginPage".
func deriveClassName(testPath string) string {
	parts := strings.Split(nonAlnum.ReplaceAllString(testPath, " "), " ")
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	if sb.Len() == 0 {
		return "Page"
	}
	return sb.String() + "Page"
}
