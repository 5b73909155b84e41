package correlate

import (
	"testing"

	"storyforge/internal/types"
)

func TestCorrelate_ExactTextMatch(t *testing.T) {
	acc := []types.AccessibilityElement{{Role: "textbox", Name: "Username", Ref: "e1"}}
	dom := []types.DOMElement{{TagName: "input", Placeholder: "Username", ID: "user"}}

	hybrids := Correlate(acc, dom)
	if len(hybrids) != 1 {
		t.Fatalf("expected 1 hybrid, got %d", len(hybrids))
	}
	h := hybrids[0]
	if h.CorrelationMethod != types.CorrelationExactText || h.CorrelationScore != types.ScoreExactText {
		t.Fatalf("expected exact-text-match/1.0, got %s/%v", h.CorrelationMethod, h.CorrelationScore)
	}
	if h.HTMLAttributes["id"] != "user" {
		t.Fatalf("expected html attributes copied, got %+v", h.HTMLAttributes)
	}
}

func TestCorrelate_PartialTextMatch(t *testing.T) {
	acc := []types.AccessibilityElement{{Role: "button", Name: "Sign", Ref: "e1"}}
	dom := []types.DOMElement{{TagName: "button", TextContent: "Sign In Now"}}

	hybrids := Correlate(acc, dom)
	h := hybrids[0]
	if h.CorrelationMethod != types.CorrelationPartialText || h.CorrelationScore != types.ScorePartialText {
		t.Fatalf("expected partial-text-match/0.8, got %s/%v", h.CorrelationMethod, h.CorrelationScore)
	}
}

func TestCorrelate_PositionBased(t *testing.T) {
	acc := []types.AccessibilityElement{
		{Role: "textbox", Name: "- textbox", Ref: "e1"},
		{Role: "textbox", Name: "- textbox", Ref: "e2"},
	}
	dom := []types.DOMElement{
		{TagName: "input", ID: "first"},
		{TagName: "input", ID: "second"},
	}

	hybrids := Correlate(acc, dom)
	if hybrids[0].HTMLAttributes["id"] != "first" {
		t.Fatalf("expected first input for k=0, got %+v", hybrids[0].HTMLAttributes)
	}
	if hybrids[1].HTMLAttributes["id"] != "second" {
		t.Fatalf("expected second input for k=1, got %+v", hybrids[1].HTMLAttributes)
	}
	for _, h := range hybrids {
		if h.CorrelationMethod != types.CorrelationPositional || h.CorrelationScore != types.ScorePositional {
			t.Fatalf("expected position-based/0.7, got %s/%v", h.CorrelationMethod, h.CorrelationScore)
		}
	}
}

func TestCorrelate_NoneWhenUnmatched(t *testing.T) {
	acc := []types.AccessibilityElement{{Role: "slider", Name: "Volume", Ref: "e1"}}
	hybrids := Correlate(acc, nil)
	if len(hybrids) != 1 {
		t.Fatalf("expected unmatched element to still surface as hybrid")
	}
	h := hybrids[0]
	if h.CorrelationMethod != types.CorrelationNone || h.CorrelationScore != types.ScoreNone {
		t.Fatalf("expected none/0, got %s/%v", h.CorrelationMethod, h.CorrelationScore)
	}
}

func TestCorrelate_EmptyDOMList(t *testing.T) {
	acc := []types.AccessibilityElement{
		{Role: "button", Name: "Submit", Ref: "e1"},
		{Role: "link", Name: "Home", Ref: "e2"},
	}
	hybrids := Correlate(acc, []types.DOMElement{})
	if len(hybrids) != 2 {
		t.Fatalf("expected accessibility-only hybrids for each element")
	}
	for _, h := range hybrids {
		if h.CorrelationScore != 0 {
			t.Fatalf("expected score 0 with empty DOM list, got %v", h.CorrelationScore)
		}
	}
}

func TestCorrelate_EveryAccessibilityElementSurfaces(t *testing.T) {
	acc := make([]types.AccessibilityElement, 5)
	for i := range acc {
		acc[i] = types.AccessibilityElement{Role: "generic", Ref: "e" + string(rune('0'+i))}
	}
	hybrids := Correlate(acc, nil)
	if len(hybrids) != len(acc) {
		t.Fatalf("expected 1:1 hybrid per accessibility element")
	}
}

func TestCorrelate_PlaceholderPromotion(t *testing.T) {
	acc := []types.AccessibilityElement{{Role: "textbox", Name: "- textbox", Ref: "e1"}}
	dom := []types.DOMElement{{TagName: "input", Placeholder: "Email address"}}

	hybrids := Correlate(acc, dom)
	h := hybrids[0]
	if h.Name != "Email address" || h.Text != "Email address" {
		t.Fatalf("expected placeholder promoted into name/text, got %+v", h)
	}
}

func TestCorrelate_GenericRestrictedToDivWithoutRole(t *testing.T) {
	acc := []types.AccessibilityElement{{Role: "generic", Name: "- generic", Ref: "e1"}}
	dom := []types.DOMElement{{TagName: "div", Role: "button"}, {TagName: "div"}}

	hybrids := Correlate(acc, dom)
	h := hybrids[0]
	if h.HTMLAttributes["role"] != "" {
		t.Fatalf("expected the div carrying a role attribute to be skipped, got %+v", h.HTMLAttributes)
	}
}
