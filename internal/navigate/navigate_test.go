package navigate

import (
	"context"
	"testing"

	mcppkg "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyforge/internal/types"
)

type fakeCaller struct {
	calls []string
	err   error
}

func (f *fakeCaller) CallTool(ctx context.Context, name string, args map[string]any) (*mcppkg.CallToolResult, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return nil, f.err
	}
	return &mcppkg.CallToolResult{}, nil
}

type fakeContext struct {
	contexts []types.PageContext
	idx      int
}

func (f *fakeContext) GetCompleteContext(ctx context.Context, url string) (types.PageContext, error) {
	if f.idx >= len(f.contexts) {
		return f.contexts[len(f.contexts)-1], nil
	}
	pc := f.contexts[f.idx]
	f.idx++
	return pc, nil
}

func (f *fakeContext) PostClickDynamicCapture(ctx context.Context) []types.DOMElement {
	return nil
}

type fakeBackend struct {
	decisions []types.Decision
	idx       int
}

func (f *fakeBackend) DecideNextAction(ctx context.Context, prompt string) (*types.Decision, error) {
	if f.idx >= len(f.decisions) {
		return nil, nil
	}
	d := f.decisions[f.idx]
	f.idx++
	return &d, nil
}

func (f *fakeBackend) SynthesizeArtifact(ctx context.Context, prompt string) (*types.Artifact, error) {
	return nil, nil
}

func samplePageContext() types.PageContext {
	return types.PageContext{
		PageInfo: types.PageInfo{URL: "https://app.test/login"},
		HybridElements: []types.HybridElement{
			{Ref: "e1", Role: "button", Name: "Submit"},
		},
	}
}

func TestLoop_Run_ClickStepSucceeds(t *testing.T) {
	caller := &fakeCaller{}
	ctxAcq := &fakeContext{contexts: []types.PageContext{samplePageContext(), samplePageContext(), samplePageContext()}}
	backend := &fakeBackend{decisions: []types.Decision{
		{Action: types.ActionClick, Element: &types.DecisionTarget{Role: "button", Name: "Submit", Ref: "e1"}},
	}}
	loop := New(caller, ctxAcq, backend, nil)
	loop.SettleDelay = 0

	result, err := loop.Run(context.Background(), "https://app.test", "/login", []string{"go to login", "click submit"})
	require.NoError(t, err)
	require.Len(t, result.Steps, 2, "expected navigate + click steps")
	assert.Equal(t, types.ActionNavigate, result.Steps[0].Action)
	assert.True(t, result.Steps[1].Result.Success)
	assert.Contains(t, caller.calls, "browser_click")
}

func TestLoop_Run_NullDecisionDefaultsToObserve(t *testing.T) {
	caller := &fakeCaller{}
	ctxAcq := &fakeContext{contexts: []types.PageContext{samplePageContext()}}
	backend := &fakeBackend{} // no decisions queued -> nil
	loop := New(caller, ctxAcq, backend, nil)
	loop.SettleDelay = 0

	result, err := loop.Run(context.Background(), "https://app.test", "/login", []string{"go to login", "do something ambiguous"})
	require.NoError(t, err)
	assert.Equal(t, types.ActionObserve, result.Steps[1].Action)
	assert.True(t, result.Steps[1].Result.Success)
}

func TestLoop_Run_MissingRefFailsStepButContinues(t *testing.T) {
	caller := &fakeCaller{}
	ctxAcq := &fakeContext{contexts: []types.PageContext{samplePageContext(), samplePageContext()}}
	backend := &fakeBackend{decisions: []types.Decision{
		{Action: types.ActionClick}, // no element/ref
	}}
	loop := New(caller, ctxAcq, backend, nil)
	loop.SettleDelay = 0

	result, err := loop.Run(context.Background(), "https://app.test", "/login", []string{"go to login", "click something"})
	require.NoError(t, err)
	assert.False(t, result.Steps[1].Result.Success)
	assert.NotEmpty(t, result.Steps[1].Result.Error)
}

func TestLoop_Run_GeneratedSelectorsOnlyFromSuccessfulInteractions(t *testing.T) {
	caller := &fakeCaller{}
	ctxAcq := &fakeContext{contexts: []types.PageContext{samplePageContext(), samplePageContext(), samplePageContext()}}
	backend := &fakeBackend{decisions: []types.Decision{
		{Action: types.ActionClick, Element: &types.DecisionTarget{Role: "button", Name: "Submit", Ref: "e1"}},
	}}
	loop := New(caller, ctxAcq, backend, nil)
	loop.SettleDelay = 0

	result, err := loop.Run(context.Background(), "https://app.test", "/login", []string{"go to login", "click submit"})
	require.NoError(t, err)
	assert.Len(t, result.GeneratedSelectors, 1)
	assert.Len(t, result.Learnings, 2)
}

func TestLoop_Run_EmptyUserStory(t *testing.T) {
	loop := New(&fakeCaller{}, &fakeContext{}, &fakeBackend{}, nil)
	result, err := loop.Run(context.Background(), "https://app.test", "/login", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Steps)
}
