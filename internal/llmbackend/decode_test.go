package llmbackend

import "testing"

func TestDecodeDecision_Empty(t *testing.T) {
	d, err := DecodeDecision("")
	if err != nil || d != nil {
		t.Fatalf("expected nil/nil for empty input, got %+v / %v", d, err)
	}
}

func TestDecodeDecision_Valid(t *testing.T) {
	raw := `{"action":"click","element":{"role":"button","name":"Submit","ref":"e1"},"reasoning":"it's the primary CTA"}`
	d, err := DecodeDecision(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d == nil || d.Action != "click" || d.Element == nil || d.Element.Ref != "e1" {
		t.Fatalf("unexpected decision: %+v", d)
	}
}

func TestDecodeDecision_MissingAction(t *testing.T) {
	d, err := DecodeDecision(`{"reasoning":"no action field"}`)
	if err != nil || d != nil {
		t.Fatalf("expected nil decision when action is missing, got %+v / %v", d, err)
	}
}

func TestDecodeDecision_Garbage(t *testing.T) {
	d, err := DecodeDecision("the quick brown fox")
	if err != nil || d != nil {
		t.Fatalf("expected nil/nil for unparseable input, got %+v / %v", d, err)
	}
}

func TestDecodeArtifact_Valid(t *testing.T) {
	raw := `{"pageObject":{"className":"LoginPage","locators":[]},"testSteps":[{"page":"LoginPage","action":"navigate"}]}`
	a, err := DecodeArtifact(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil || a.PageObject.ClassName != "LoginPage" || len(a.TestSteps) != 1 {
		t.Fatalf("unexpected artifact: %+v", a)
	}
}

func TestDecodeArtifact_Empty(t *testing.T) {
	a, err := DecodeArtifact("")
	if err != nil || a != nil {
		t.Fatalf("expected nil/nil for empty input, got %+v / %v", a, err)
	}
}
