// Package types holds the data model shared across the MCP client,
// correlation, and navigation packages: accessibility/DOM/hybrid
// elements, selectors, page context, and the exploration trace.
package types

import "time"

// AccessibilityElement is one node from an MCP browser_snapshot response.
// Ref is the only handle usable to act on the element, and is valid only
// within the SnapshotID that produced it.
type AccessibilityElement struct {
	Role       string            `json:"role"`
	Name       string            `json:"name,omitempty"`
	Ref        string            `json:"ref"`
	SnapshotID string            `json:"snapshotId"`
	Disabled   bool              `json:"disabled,omitempty"`
	Checked    bool              `json:"checked,omitempty"`
	Expanded   bool              `json:"expanded,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// DOMElement is one node from the in-page DOM-walk (browser_evaluate).
type DOMElement struct {
	TagName     string  `json:"tagName"`
	Type        string  `json:"type,omitempty"`
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name,omitempty"`
	ClassName   string  `json:"className,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`
	Value       string  `json:"value,omitempty"`
	TextContent string  `json:"textContent,omitempty"`
	InnerText   string  `json:"innerText,omitempty"`
	AriaLabel   string  `json:"ariaLabel,omitempty"`
	Role        string  `json:"role,omitempty"`
	DataTestID  string  `json:"data-testid,omitempty"`
	DataCy      string  `json:"data-cy,omitempty"`
	DataQa      string  `json:"data-qa,omitempty"`
	Title       string  `json:"title,omitempty"`
	Alt         string  `json:"alt,omitempty"`
	Disabled    bool    `json:"disabled,omitempty"`
	Required    bool    `json:"required,omitempty"`
	Readonly    bool    `json:"readonly,omitempty"`
	Checked     bool    `json:"checked,omitempty"`
	BoundingBox BBox    `json:"boundingBox,omitempty"`
	IsDynamic   bool    `json:"isDynamic"`
	DynamicType string  `json:"dynamicType,omitempty"`
}

// BBox is the element's bounding rectangle as returned by getBoundingClientRect.
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Dynamic element classifications. A DOM node is "dynamic" when it carries
// a live-region marker, an interactive handler, or a test-id attribute —
// the kinds of nodes likely to appear/disappear across interactions.
const (
	DynamicTypeLiveRegion = "live-region"
	DynamicTypeInteractive = "interactive"
	DynamicTypeTestTarget  = "test-target"
	DynamicTypeStandard    = "standard"
)

// Correlation methods, in descending confidence order. CorrelationScore
// is always one of {0, 0.7, 0.8, 1.0} and must match the method below.
const (
	CorrelationExactText    = "exact-text-match"
	CorrelationPartialText  = "partial-text-match"
	CorrelationPositional   = "position-based"
	CorrelationNone         = "none"
)

// Score constants matching the correlation methods above.
const (
	ScoreExactText   = 1.0
	ScorePartialText = 0.8
	ScorePositional  = 0.7
	ScoreNone        = 0.0
)

// HybridElement fuses an AccessibilityElement with its correlated DOMElement.
type HybridElement struct {
	Ref               string            `json:"ref"`
	Role              string            `json:"role"`
	Name              string            `json:"name"`
	Text              string            `json:"text"`
	Disabled          bool              `json:"disabled,omitempty"`
	Checked           bool              `json:"checked,omitempty"`
	Expanded          bool              `json:"expanded,omitempty"`
	HTMLAttributes    map[string]string `json:"htmlAttributes,omitempty"`
	CorrelationScore  float64           `json:"correlationScore"`
	CorrelationMethod string            `json:"correlationMethod"`
	CorrelationIndex  int               `json:"correlationIndex"`
	Selectors         [5]Selector       `json:"selectors"`
}

// Selector kinds, a closed tagged union dispatched exhaustively wherever
// a selector is rendered into a Playwright-style locator string.
const (
	KindByRole         = "byRole"
	KindByLabel        = "byLabel"
	KindByTestID       = "byTestId"
	KindByPlaceholder  = "byPlaceholder"
	KindByText         = "byText"
	KindByTitle        = "byTitle"
	KindByAltText      = "byAltText"
	KindCSSLocator     = "cssLocator"
	KindXPathLocator   = "xpathLocator"
)

// Selector is one ranked candidate locator for a HybridElement.
type Selector struct {
	Kind     string         `json:"kind"`
	Value    string         `json:"value"`
	Options  map[string]any `json:"options,omitempty"`
	Priority int            `json:"priority"`
	Reason   string         `json:"reason"`
}

// PageInfo is the minimal page identity captured alongside a snapshot.
type PageInfo struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

// ConsoleMessage is one parsed browser_console_messages line.
type ConsoleMessage struct {
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NetworkRequest is one parsed browser_network_requests line.
type NetworkRequest struct {
	Method    string    `json:"method"`
	URL       string    `json:"url"`
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// PageContext is the complete, correlated view of a page at one point in
// the exploration: the accessibility tree, the DOM walk, their fusion,
// and the ambient console/network/screenshot signals.
type PageContext struct {
	SnapshotID            string                  `json:"snapshotId"`
	PageInfo              PageInfo                `json:"pageInfo"`
	AccessibilityElements []AccessibilityElement  `json:"accessibilityElements"`
	DOMElements           []DOMElement            `json:"domElements"`
	HybridElements        []HybridElement         `json:"hybridElements"`
	ConsoleMessages       []ConsoleMessage        `json:"consoleMessages"`
	NetworkRequests       []NetworkRequest        `json:"networkRequests"`
	Screenshot            []byte                  `json:"screenshot,omitempty"`
}

// Interaction actions, a closed tagged union.
const (
	ActionNavigate = "navigate"
	ActionClick    = "click"
	ActionType     = "type"
	ActionWait     = "wait"
	ActionObserve  = "observe"
)

// StepResult records the outcome of executing one InteractionStep.
type StepResult struct {
	Success          bool          `json:"success"`
	NewURL           string        `json:"newUrl,omitempty"`
	NewElementsCount int           `json:"newElementsCount"`
	Error            string        `json:"error,omitempty"`
	Elapsed          time.Duration `json:"elapsed,omitempty"`
}

// InteractionStep is one entry in the exploration trace.
type InteractionStep struct {
	UserStepText string          `json:"userStepText"`
	Action       string          `json:"action"`
	Element      *HybridElement  `json:"element,omitempty"`
	Params       []any           `json:"params,omitempty"`
	Result       StepResult      `json:"result"`
}

// ExplorationResult is the accumulated output of the Navigation Loop,
// consumed by the Artifact Synthesizer.
type ExplorationResult struct {
	Steps              []InteractionStep `json:"steps"`
	FinalContext       PageContext       `json:"finalContext"`
	GeneratedSelectors []HybridElement   `json:"generatedSelectors"`
	Learnings          []string          `json:"learnings"`
}

// Locator is one entry in the synthesized Page Object.
type Locator struct {
	Name        string     `json:"name"`
	ElementType string     `json:"elementType"`
	Actions     []string   `json:"actions"`
	Selectors   []Selector `json:"selectors"`
}

// PageObject groups a class name with its locators.
type PageObject struct {
	ClassName string    `json:"className"`
	Locators  []Locator `json:"locators"`
}

// TestStep is one emitted test instruction.
type TestStep struct {
	Page   string `json:"page"`
	Action string `json:"action"`
	Params []any  `json:"params"`
}

// Artifact is the final synthesized test output.
type Artifact struct {
	PageObject PageObject `json:"pageObject"`
	TestSteps  []TestStep `json:"testSteps"`
}

// Decision is the LLM's chosen next action, parsed from decide_next_action.
type Decision struct {
	Action    string          `json:"action"`
	Element   *DecisionTarget `json:"element,omitempty"`
	Params    []any           `json:"params,omitempty"`
	Reasoning string          `json:"reasoning,omitempty"`
}

// DecisionTarget identifies the element an Decision acts on.
type DecisionTarget struct {
	Role string `json:"role"`
	Name string `json:"name"`
	Ref  string `json:"ref"`
}
