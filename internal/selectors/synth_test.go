package selectors

import (
	"reflect"
	"testing"

	"storyforge/internal/types"
)

func sampleHybrid() types.HybridElement {
	return types.HybridElement{
		Role: "button",
		Name: "Sign In",
		Text: "Sign In",
		HTMLAttributes: map[string]string{
			"tagName":     "button",
			"id":          "signin-btn",
			"type":        "submit",
			"name":        "signin",
			"data-testid": "signin-button",
			"title":       "Sign in to your account",
		},
	}
}

func TestSynthesize_Determinism(t *testing.T) {
	h1 := sampleHybrid()
	h2 := sampleHybrid()

	s1 := Synthesize(h1)
	s2 := Synthesize(h2)

	if !reflect.DeepEqual(s1, s2) {
		t.Fatalf("expected identical selector arrays for identical input, got %+v vs %+v", s1, s2)
	}
}

func TestSynthesize_ContiguousPriorities(t *testing.T) {
	sels := Synthesize(sampleHybrid())
	for i, s := range sels {
		if s.Priority != i+1 {
			t.Fatalf("expected contiguous priorities 1..5, got %+v", sels)
		}
	}
}

func TestSynthesize_DescendingConfidenceOrder(t *testing.T) {
	sels := Synthesize(sampleHybrid())
	if sels[0].Kind != types.KindByRole || sels[0].Value != "button" {
		t.Fatalf("expected byRole+name first, got %+v", sels[0])
	}
	if sels[1].Kind != types.KindCSSLocator || sels[1].Value != "#signin-btn" {
		t.Fatalf("expected id css locator second, got %+v", sels[1])
	}
}

func TestSynthesize_PadsWithFallbackWhenSparse(t *testing.T) {
	h := types.HybridElement{Role: "generic"}
	sels := Synthesize(h)
	for _, s := range sels {
		if s.Value == "" {
			t.Fatalf("expected no empty selector values, got %+v", sels)
		}
	}
	last := sels[4]
	if last.Kind != types.KindCSSLocator {
		t.Fatalf("expected fallback to be a css locator, got %+v", last)
	}
}

func TestSynthesize_InvalidRoleExcluded(t *testing.T) {
	h := types.HybridElement{Role: "not-a-real-role", Name: "Thing", Text: "Thing"}
	sels := Synthesize(h)
	for _, s := range sels {
		if s.Kind == types.KindByRole {
			t.Fatalf("expected invalid role to never be used in a byRole selector, got %+v", sels)
		}
	}
}

func TestSynthesize_AlwaysFiveSelectors(t *testing.T) {
	sels := Synthesize(types.HybridElement{})
	if len(sels) != 5 {
		t.Fatalf("expected exactly 5 selectors, got %d", len(sels))
	}
}
