// Package correlate implements the Correlation Engine (spec §4.D): it
// fuses accessibility elements (actionable via ref, thin on attributes)
// with DOM elements (rich attributes, no ref) into Hybrid Elements.
package correlate

import (
	"strings"

	"storyforge/internal/types"
)

// roleCompatibility is the accessibility-role -> HTML-tag compatibility
// table from spec §4.D.1. It is intentionally not extended to cover
// span/section for role=generic — see Open Question #1 in DESIGN.md;
// the spec flags that extension as ambiguous and asks to record, not
// guess.
var roleCompatibility = map[string][]string{
	"textbox":  {"input", "textarea"},
	"button":   {"button", "input"},
	"link":     {"a"},
	"checkbox": {"input"},
	"radio":    {"input"},
	"combobox": {"select"},
	"img":      {"img"},
	"heading":  {"h1", "h2", "h3", "h4", "h5", "h6"},
	"generic":  {"div"},
}

// isPlaceholderName reports whether an accessibility name is empty or a
// bare role marker rather than real text, e.g. `"- textbox"` or
// `"- generic"` produced by some MCP servers when no accessible name is
// available.
func isPlaceholderName(name string) bool {
	n := strings.TrimSpace(name)
	if n == "" {
		return true
	}
	return strings.HasPrefix(n, "- ")
}

func isRoleCompatible(role string, el types.DOMElement) bool {
	tags, ok := roleCompatibility[role]
	if !ok {
		return false
	}
	tag := strings.ToLower(el.TagName)
	for _, t := range tags {
		if t != tag {
			continue
		}
		if role == "button" && tag == "input" {
			return strings.EqualFold(el.Type, "submit")
		}
		if role == "generic" && tag == "div" {
			return strings.TrimSpace(el.Role) == ""
		}
		return true
	}
	return false
}

func domText(el types.DOMElement) string {
	for _, v := range []string{el.Placeholder, el.TextContent, el.InnerText, el.AriaLabel, el.Name} {
		if strings.TrimSpace(v) != "" {
			return strings.ToLower(strings.TrimSpace(v))
		}
	}
	return ""
}

// indices are the byType and byText maps built once over the DOM walk,
// per spec §4.D "Indices".
type indices struct {
	byType map[string][]types.DOMElement
	byText map[string][]types.DOMElement
}

func buildIndices(domElements []types.DOMElement) indices {
	idx := indices{byType: map[string][]types.DOMElement{}, byText: map[string][]types.DOMElement{}}
	for _, el := range domElements {
		typeKey := strings.ToLower(el.TagName) + "|" + strings.ToLower(el.Type)
		idx.byType[typeKey] = append(idx.byType[typeKey], el)

		for _, v := range []string{el.Placeholder, el.TextContent, el.InnerText, el.AriaLabel, el.Name} {
			key := strings.ToLower(strings.TrimSpace(v))
			if key == "" {
				continue
			}
			idx.byText[key] = append(idx.byText[key], el)
		}
	}
	return idx
}

// Correlate fuses accessibility elements with DOM elements into Hybrid
// Elements, one per accessibility element (spec §4.D invariant: every
// accessibility element surfaces as a hybrid even if unmatched).
func Correlate(accEls []types.AccessibilityElement, domEls []types.DOMElement) []types.HybridElement {
	idx := buildIndices(domEls)
	roleSeen := map[string]int{}

	out := make([]types.HybridElement, 0, len(accEls))
	for _, a := range accEls {
		k := roleSeen[a.Role]
		match, method, score := matchOne(a, idx, domEls, k)
		roleSeen[a.Role] = k + 1

		h := types.HybridElement{
			Ref:               a.Ref,
			Role:              a.Role,
			Name:              a.Name,
			Text:              a.Name,
			Disabled:          a.Disabled,
			Checked:           a.Checked,
			Expanded:          a.Expanded,
			CorrelationScore:  score,
			CorrelationMethod: method,
			CorrelationIndex:  k,
		}
		if match != nil {
			h.HTMLAttributes = domAttributes(*match)
			if isPlaceholderName(a.Name) && match.Placeholder != "" {
				h.Name = match.Placeholder
				h.Text = match.Placeholder
			}
		}
		out = append(out, h)
	}
	return out
}

// matchOne runs the four-tier matching order from spec §4.D: exact text,
// partial text, positional, none. k is the number of earlier
// accessibility elements sharing this element's role, used for the
// positional tier. domEls is scanned in document order so "first
// role-compatible match wins" ties break deterministically.
func matchOne(a types.AccessibilityElement, idx indices, domEls []types.DOMElement, k int) (*types.DOMElement, string, float64) {
	if !isPlaceholderName(a.Name) {
		key := strings.ToLower(strings.TrimSpace(a.Name))
		if _, ok := idx.byText[key]; ok {
			for i := range domEls {
				if domText(domEls[i]) == key && isRoleCompatible(a.Role, domEls[i]) {
					return &domEls[i], types.CorrelationExactText, types.ScoreExactText
				}
			}
		}

		for i := range domEls {
			if !isRoleCompatible(a.Role, domEls[i]) {
				continue
			}
			t := domText(domEls[i])
			if t == "" {
				continue
			}
			if strings.Contains(t, key) || strings.Contains(key, t) {
				return &domEls[i], types.CorrelationPartialText, types.ScorePartialText
			}
		}
	}

	if el, ok := positional(a.Role, domEls, k); ok {
		return el, types.CorrelationPositional, types.ScorePositional
	}

	return nil, types.CorrelationNone, types.ScoreNone
}

// positional picks the k-th DOM element of compatible role, in DOM
// document order. For role=generic this is restricted to <div> without
// a role attribute (spec §4.D.1), so isRoleCompatible already enforces
// that restriction. See DESIGN.md Open Question #2 for the tie-break
// discussion when snapshot order diverges from DOM order.
func positional(role string, domEls []types.DOMElement, k int) (*types.DOMElement, bool) {
	if _, ok := roleCompatibility[role]; !ok {
		return nil, false
	}
	count := 0
	for i := range domEls {
		if !isRoleCompatible(role, domEls[i]) {
			continue
		}
		if count == k {
			return &domEls[i], true
		}
		count++
	}
	return nil, false
}

func domAttributes(el types.DOMElement) map[string]string {
	attrs := map[string]string{}
	add := func(k, v string) {
		if v != "" {
			attrs[k] = v
		}
	}
	add("tagName", el.TagName)
	add("type", el.Type)
	add("id", el.ID)
	add("name", el.Name)
	add("className", el.ClassName)
	add("placeholder", el.Placeholder)
	add("value", el.Value)
	add("textContent", el.TextContent)
	add("innerText", el.InnerText)
	add("ariaLabel", el.AriaLabel)
	add("role", el.Role)
	add("data-testid", el.DataTestID)
	add("data-cy", el.DataCy)
	add("data-qa", el.DataQa)
	add("title", el.Title)
	add("alt", el.Alt)
	if el.Disabled {
		attrs["disabled"] = "true"
	}
	if el.Required {
		attrs["required"] = "true"
	}
	if el.Readonly {
		attrs["readonly"] = "true"
	}
	if el.Checked {
		attrs["checked"] = "true"
	}
	return attrs
}
