package navigate

import (
	"fmt"
	"sort"
	"strings"

	"storyforge/internal/types"
)

// buildDecisionPrompt constructs the Navigation Decision Prompt (spec
// §4.F step 2): the current user-story step, enumerated interactive
// hybrid elements (role, name, ref, salient HTML attributes, top
// selectors), and prior attempts.
func buildDecisionPrompt(userStepText string, pc types.PageContext, history []types.InteractionStep) string {
	var sb strings.Builder
	sb.WriteString("You are driving a browser to accomplish one step of a user story.\n\n")
	fmt.Fprintf(&sb, "Current step: %s\n", userStepText)
	fmt.Fprintf(&sb, "Current URL: %s\n\n", pc.PageInfo.URL)

	sb.WriteString("Interactive elements:\n")
	for _, h := range pc.HybridElements {
		fmt.Fprintf(&sb, "- ref=%s role=%s name=%q", h.Ref, h.Role, h.Name)
		if flags := stateFlags(h); flags != "" {
			fmt.Fprintf(&sb, " %s", flags)
		}
		if attrs := salientAttributes(h); attrs != "" {
			fmt.Fprintf(&sb, " attrs={%s}", attrs)
		}
		if len(h.Selectors) > 0 && h.Selectors[0].Value != "" {
			fmt.Fprintf(&sb, " topSelector=%s(%s)", h.Selectors[0].Kind, h.Selectors[0].Value)
		}
		sb.WriteString("\n")
	}

	if len(history) > 0 {
		sb.WriteString("\nNavigation history:\n")
		for _, s := range history {
			fmt.Fprintf(&sb, "- %s on step %q: success=%v\n", s.Action, s.UserStepText, s.Result.Success)
		}
	}

	sb.WriteString("\nRespond with a single JSON object: ")
	sb.WriteString(`{"action":"click|type|wait|observe","element":{"role":"...","name":"...","ref":"..."},"params":[...],"reasoning":"..."}`)
	return sb.String()
}

// stateFlags renders a hybrid element's boolean state (disabled, checked,
// expanded) as a compact tag list, omitting anything false.
func stateFlags(h types.HybridElement) string {
	var flags []string
	if h.Disabled {
		flags = append(flags, "disabled")
	}
	if h.Checked {
		flags = append(flags, "checked")
	}
	if h.Expanded {
		flags = append(flags, "expanded")
	}
	if len(flags) == 0 {
		return ""
	}
	return "[" + strings.Join(flags, ",") + "]"
}

// salientAttributes renders a hybrid element's HTML attribute bag in a
// stable (sorted) order, since map iteration order would otherwise make
// the prompt non-deterministic across calls with identical input.
func salientAttributes(h types.HybridElement) string {
	if len(h.HTMLAttributes) == 0 {
		return ""
	}
	keys := make([]string, 0, len(h.HTMLAttributes))
	for k := range h.HTMLAttributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, h.HTMLAttributes[k]))
	}
	return strings.Join(parts, ",")
}
