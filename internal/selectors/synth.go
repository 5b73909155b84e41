// Package selectors implements the Selector Synthesizer (spec §4.E):
// for each Hybrid Element, produce five priority-ranked, Playwright-style
// selector candidates with confidence scores and reasoning.
package selectors

import (
	"fmt"
	"sort"
	"strings"

	"storyforge/internal/types"
)

type candidate struct {
	kind       string
	value      string
	options    map[string]any
	confidence int
	reason     string
}

// Synthesize produces exactly five priority-ranked selectors for h,
// padding with nth-of-type fallbacks if fewer than five valid candidates
// were generated (spec §4.E).
func Synthesize(h types.HybridElement) [5]types.Selector {
	candidates := generate(h)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	var out [5]types.Selector
	n := 0
	for _, c := range candidates {
		if n >= 5 {
			break
		}
		out[n] = types.Selector{Kind: c.kind, Value: c.value, Options: c.options, Priority: n + 1, Reason: c.reason}
		n++
	}
	for ; n < 5; n++ {
		out[n] = fallbackSelector(h, n+1)
	}
	return out
}

// generate emits every candidate whose precondition holds, per the
// table in spec §4.E, applying the validation filter (closed kind set,
// ARIA role whitelist, non-empty value) as each candidate is built.
func generate(h types.HybridElement) []candidate {
	var cs []candidate
	add := func(kind, value string, options map[string]any, confidence int, reason string) {
		if !validKind(kind) || strings.TrimSpace(value) == "" {
			return
		}
		cs = append(cs, candidate{kind: kind, value: value, options: options, confidence: confidence, reason: reason})
	}

	attrs := h.HTMLAttributes
	text := strings.TrimSpace(h.Text)
	id := attrs["id"]
	testID := firstNonEmpty(attrs["data-testid"], attrs["data-cy"], attrs["data-qa"])
	placeholder := attrs["placeholder"]
	title := attrs["title"]
	alt := attrs["alt"]
	tag := attrs["tagName"]
	attrType := attrs["type"]

	if ValidRole(h.Role) && text != "" {
		add(types.KindByRole, h.Role, map[string]any{"name": text}, 95, "role + accessible name is the most stable selector")
	}
	if id != "" {
		add(types.KindCSSLocator, "#"+id, nil, 92, "element id is unique and stable")
	}
	if text != "" {
		add(types.KindByLabel, text, nil, 90, "label text is human-readable and stable")
	}
	if testID != "" {
		add(types.KindByTestID, testID, nil, 88, "dedicated test id attribute")
	}
	if placeholder != "" {
		add(types.KindByPlaceholder, placeholder, nil, 85, "placeholder text identifies the field")
	}
	if ValidRole(h.Role) {
		add(types.KindByRole, h.Role, nil, 80, "role alone, no accessible name available")
	}
	if text != "" {
		add(types.KindByText, text, nil, 75, "visible text content")
	}
	if title != "" {
		add(types.KindByTitle, title, nil, 65, "title attribute")
	}
	if alt != "" {
		add(types.KindByAltText, alt, nil, 60, "alt attribute")
	}
	if tag != "" && attrType != "" {
		add(types.KindCSSLocator, fmt.Sprintf("%s[name=%q][type=%q]", tag, attrs["name"], attrType), nil, 50, "css attribute selector on tag/name/type")
	}
	if attrType != "" && tag != "" {
		add(types.KindXPathLocator, fmt.Sprintf("//%s[@type=%q]", tag, attrType), nil, 45, "xpath on element type")
	}
	if h.Role != "" {
		add(types.KindXPathLocator, fmt.Sprintf("//*[@role=%q]", h.Role), nil, 40, "xpath on role attribute")
	}

	return cs
}

func fallbackSelector(h types.HybridElement, priority int) types.Selector {
	tag := h.HTMLAttributes["tagName"]
	if tag == "" {
		tag = "*"
	}
	return types.Selector{
		Kind:     types.KindCSSLocator,
		Value:    fmt.Sprintf("%s:nth-of-type(%d)", tag, priority),
		Priority: priority,
		Reason:   "positional fallback; no stronger candidate was available",
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
