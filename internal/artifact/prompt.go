package artifact

import (
	"fmt"
	"strings"

	"storyforge/internal/types"
)

// buildTestGenerationPrompt constructs the Test Generation Prompt: the
// original user story, final URL, interaction elements with their
// selectors, the navigation history, and a tail of console output.
func buildTestGenerationPrompt(userStory []string, result types.ExplorationResult) string {
	var sb strings.Builder
	sb.WriteString("You are writing an automated UI test from a completed browser exploration.\n\n")

	sb.WriteString("Original user story:\n")
	for _, line := range userStory {
		fmt.Fprintf(&sb, "- %s\n", line)
	}
	fmt.Fprintf(&sb, "\nFinal URL: %s\n\n", result.FinalContext.PageInfo.URL)

	sb.WriteString("Interaction elements:\n")
	for _, h := range result.GeneratedSelectors {
		fmt.Fprintf(&sb, "- name=%q role=%s\n", h.Name, h.Role)
		for _, s := range h.Selectors {
			if s.Value == "" {
				continue
			}
			fmt.Fprintf(&sb, "    priority=%d %s(%s)\n", s.Priority, s.Kind, s.Value)
		}
	}

	sb.WriteString("\nRecorded steps:\n")
	for _, s := range result.Steps {
		fmt.Fprintf(&sb, "- %s %q: success=%v\n", s.Action, s.UserStepText, s.Result.Success)
	}

	tail := result.FinalContext.ConsoleMessages
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	if len(tail) > 0 {
		sb.WriteString("\nConsole tail:\n")
		for _, c := range tail {
			fmt.Fprintf(&sb, "- [%s] %s\n", c.Level, c.Message)
		}
	}

	sb.WriteString("\nRespond with a single JSON object: ")
	sb.WriteString(`{"pageObject":{"className":"...","locators":[{"name":"...","elementType":"...","actions":["..."],"selectors":[...]}]},"testSteps":[{"page":"...","action":"...","params":[...]}]}`)
	return sb.String()
}
