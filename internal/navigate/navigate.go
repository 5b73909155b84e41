// Package navigate implements the AI Navigation Loop (spec §4.F): for
// each user-story step it acquires page context, asks the LLM backend
// for the next Decision, executes it through the MCP tool namespace,
// and records the outcome.
package navigate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	mcppkg "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"storyforge/internal/llmbackend"
	"storyforge/internal/mcp"
	"storyforge/internal/observability"
	"storyforge/internal/types"
)

var log = observability.Component("navigate")

const (
	defaultSettleDelay = 800 * time.Millisecond
	defaultWaitMillis  = 2000
)

// caller is the narrow MCP surface the loop needs; *mcp.Supervisor
// satisfies it. Defined locally so tests can substitute a fake.
type caller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (*mcppkg.CallToolResult, error)
}

// contextAcquirer is the narrow Context Acquirer surface the loop needs;
// *pagectx.Acquirer satisfies it.
type contextAcquirer interface {
	GetCompleteContext(ctx context.Context, url string) (types.PageContext, error)
	PostClickDynamicCapture(ctx context.Context) []types.DOMElement
}

// Loop runs the user-story exploration against one MCP session.
type Loop struct {
	Supervisor  caller
	Context     contextAcquirer
	Backend     llmbackend.Backend
	Tracer      trace.Tracer
	SettleDelay time.Duration
}

// New constructs a Loop with its settle delay defaulted.
func New(sup caller, ctxAcquirer contextAcquirer, backend llmbackend.Backend, tracer trace.Tracer) *Loop {
	return &Loop{Supervisor: sup, Context: ctxAcquirer, Backend: backend, Tracer: tracer, SettleDelay: defaultSettleDelay}
}

// Run executes one user story: userStorySteps[0] is treated as the
// navigation step (baseURL+testPath), subsequent entries are decided by
// the LLM backend (spec §4.F).
func (l *Loop) Run(ctx context.Context, baseURL, testPath string, userStorySteps []string) (types.ExplorationResult, error) {
	result := types.ExplorationResult{}
	if len(userStorySteps) == 0 {
		return result, nil
	}

	navStep, err := l.runNavigationStep(ctx, baseURL, testPath, userStorySteps[0])
	if err != nil {
		return result, err
	}
	result.Steps = append(result.Steps, navStep)

	var pendingDOM []types.DOMElement
	var lastCtx types.PageContext

	for i := 1; i < len(userStorySteps); i++ {
		stepCtx, span := l.startSpan(ctx, i, userStorySteps[i])

		pc, decErr := l.Context.GetCompleteContext(stepCtx, "")
		if decErr != nil {
			span.RecordError(decErr)
			span.End()
			if mcpErr, ok := decErr.(*mcp.Error); ok && mcpErr.Kind.Fatal() {
				return result, decErr
			}
		}
		pc.DOMElements = append(pc.DOMElements, pendingDOM...)
		pendingDOM = nil
		lastCtx = pc

		decision, execErr := l.decide(stepCtx, userStorySteps[i], pc, result.Steps)
		if execErr != nil {
			span.RecordError(execErr)
		}

		step := l.execute(stepCtx, userStorySteps[i], decision, pc)
		if step.Action == types.ActionClick {
			pendingDOM = l.Context.PostClickDynamicCapture(stepCtx)
		}

		time.Sleep(l.settleDelay())
		post, postErr := l.Context.GetCompleteContext(stepCtx, "")
		if postErr == nil {
			step.Result.NewURL = post.PageInfo.URL
			step.Result.NewElementsCount = len(post.HybridElements)
			lastCtx = post
		}

		span.SetAttributes(
			attribute.Int("step.index", i),
			attribute.String("step.action", step.Action),
			attribute.Bool("step.success", step.Result.Success),
		)
		span.End()

		result.Steps = append(result.Steps, step)
	}

	result.FinalContext = lastCtx
	result.GeneratedSelectors = l.generatedSelectors(result.Steps)
	result.Learnings = learnings(result.Steps)
	return result, nil
}

func (l *Loop) runNavigationStep(ctx context.Context, baseURL, testPath, userStepText string) (types.InteractionStep, error) {
	stepCtx, span := l.startSpan(ctx, 0, userStepText)
	defer span.End()

	target := strings.TrimSuffix(baseURL, "/") + testPath
	pc, err := l.Context.GetCompleteContext(stepCtx, target)
	if err != nil {
		span.RecordError(err)
		return types.InteractionStep{}, err
	}

	step := types.InteractionStep{
		UserStepText: userStepText,
		Action:       types.ActionNavigate,
		Result: types.StepResult{
			Success:          true,
			NewURL:           pc.PageInfo.URL,
			NewElementsCount: len(pc.HybridElements),
		},
	}
	span.SetAttributes(
		attribute.Int("step.index", 0),
		attribute.String("step.action", step.Action),
		attribute.Bool("step.success", true),
		attribute.String("step.target", target),
	)
	return step, nil
}

// decide builds the Navigation Decision Prompt and calls the LLM backend.
// A nil Decision (or an unparseable one) defaults to observe (spec §4.F
// step 3).
func (l *Loop) decide(ctx context.Context, userStepText string, pc types.PageContext, history []types.InteractionStep) (types.Decision, error) {
	prompt := buildDecisionPrompt(userStepText, pc, history)
	decision, err := l.Backend.DecideNextAction(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("navigation_decision_error")
		return types.Decision{Action: types.ActionObserve}, err
	}
	if decision == nil {
		return types.Decision{Action: types.ActionObserve}, nil
	}
	return *decision, nil
}

// execute dispatches a Decision through the MCP tool namespace (spec
// §4.F step 4). Missing required fields are logged and recorded as a
// failed step rather than aborting the loop.
func (l *Loop) execute(ctx context.Context, userStepText string, d types.Decision, pc types.PageContext) types.InteractionStep {
	start := time.Now()
	step := types.InteractionStep{UserStepText: userStepText, Action: d.Action, Params: d.Params}
	if d.Element != nil {
		step.Element = findHybrid(pc.HybridElements, d.Element.Ref)
	}

	var err error
	switch d.Action {
	case types.ActionClick:
		if d.Element == nil || d.Element.Ref == "" {
			err = fmt.Errorf("click requires a ref")
			break
		}
		_, err = l.Supervisor.CallTool(ctx, "browser_click", map[string]any{"element": d.Element.Name, "ref": d.Element.Ref})
	case types.ActionType:
		if d.Element == nil || d.Element.Ref == "" || len(d.Params) == 0 {
			err = fmt.Errorf("type requires a ref and a text param")
			break
		}
		_, err = l.Supervisor.CallTool(ctx, "browser_type", map[string]any{"element": d.Element.Name, "ref": d.Element.Ref, "text": d.Params[0]})
	case types.ActionWait:
		ms := defaultWaitMillis
		if len(d.Params) > 0 {
			if v, ok := toInt(d.Params[0]); ok {
				ms = v
			}
		}
		_, err = l.Supervisor.CallTool(ctx, "browser_wait_for", map[string]any{"time": ms})
	case types.ActionObserve:
		// no-op
	default:
		err = fmt.Errorf("unknown action %q", d.Action)
	}

	step.Result.Elapsed = time.Since(start)
	if err != nil {
		log.Warn().Err(err).Str("action", d.Action).Msg("navigation_step_failed")
		step.Result.Success = false
		step.Result.Error = err.Error()
		return step
	}
	step.Result.Success = true
	return step
}

func (l *Loop) settleDelay() time.Duration {
	if l.SettleDelay > 0 {
		return l.SettleDelay
	}
	return defaultSettleDelay
}

func (l *Loop) startSpan(ctx context.Context, index int, userStepText string) (context.Context, trace.Span) {
	if l.Tracer == nil {
		return ctx, noopSpan{}
	}
	return l.Tracer.Start(ctx, "navigation.step", trace.WithAttributes(
		attribute.Int("step.index", index),
		attribute.String("step.user_text", userStepText),
	))
}

// generatedSelectors collects every element that participated in a
// successful interaction (spec §4.F termination). Each element already
// carries its 5 ranked selectors from the Context Acquirer, which runs
// the Selector Synthesizer over every hybrid element as soon as it is
// correlated, not just the ones an interaction later touches.
func (l *Loop) generatedSelectors(steps []types.InteractionStep) []types.HybridElement {
	var out []types.HybridElement
	for _, s := range steps {
		if !s.Result.Success || s.Element == nil {
			continue
		}
		out = append(out, *s.Element)
	}
	return out
}

func learnings(steps []types.InteractionStep) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		name := "element"
		if s.Element != nil && s.Element.Name != "" {
			name = s.Element.Name
		}
		if s.Result.Success {
			out = append(out, fmt.Sprintf("✅ %s on %s succeeded", s.Action, name))
		} else {
			out = append(out, fmt.Sprintf("❌ %s on %s failed: %s", s.Action, name, s.Result.Error))
		}
	}
	return out
}

func findHybrid(els []types.HybridElement, ref string) *types.HybridElement {
	if ref == "" {
		return nil
	}
	for i := range els {
		if els[i].Ref == ref {
			return &els[i]
		}
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}
