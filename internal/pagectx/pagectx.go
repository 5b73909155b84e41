// Package pagectx implements the Context Acquirer (spec §4.C): it fans
// out across the MCP tool namespace to build one correlated PageContext
// per exploration step.
package pagectx

import (
	"context"
	"encoding/base64"
	"encoding/json"
	neturl "net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	mcppkg "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"storyforge/internal/correlate"
	"storyforge/internal/mcp"
	"storyforge/internal/mcpparse"
	"storyforge/internal/observability"
	"storyforge/internal/selectors"
	"storyforge/internal/types"
)

var log = observability.Component("pagectx")

// caller is the narrow surface pagectx needs from an MCP supervisor; a
// *mcp.Supervisor satisfies it. Defined here so tests can substitute a
// fake without spawning a real child process.
type caller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (*mcppkg.CallToolResult, error)
}

const (
	basicSettle      = 2 * time.Second
	additionalSettle = 500 * time.Millisecond
	postClickDelay   = 200 * time.Millisecond
)

// interactiveRoles is the set an accessibility element's role must belong
// to (or else carry a ref) to be treated as interactive (spec §4.C step 4).
var interactiveRoles = map[string]bool{
	"button": true, "link": true, "textbox": true, "combobox": true,
	"checkbox": true, "radio": true, "tab": true, "menuitem": true,
	"option": true, "slider": true,
}

// Acquirer builds PageContext values by calling through a Supervisor.
type Acquirer struct {
	sup caller
	now func() time.Time
}

// New constructs an Acquirer bound to sup, using the real clock.
func New(sup *mcp.Supervisor) *Acquirer {
	return &Acquirer{sup: sup, now: time.Now}
}

// NewWithClock is used by tests that need a deterministic clock.
func NewWithClock(sup caller, now func() time.Time) *Acquirer {
	return &Acquirer{sup: sup, now: now}
}

// GetCompleteContext implements spec §4.C steps 1-6. url is optional; an
// empty string skips the navigation check entirely.
func (a *Acquirer) GetCompleteContext(ctx context.Context, url string) (types.PageContext, error) {
	if strings.TrimSpace(url) != "" {
		if err := a.navigateIfNeeded(ctx, url); err != nil {
			return types.PageContext{}, err
		}
	}

	var (
		snapshotRaw string
		consoleRaw  string
		networkRaw  string
		screenshot  []byte
		domRaw      string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		snapshotRaw = a.callTextSafe(gctx, "browser_snapshot", nil, "snapshot")
		return nil
	})
	g.Go(func() error {
		consoleRaw = a.callTextSafe(gctx, "browser_console_messages", nil, "console")
		return nil
	})
	g.Go(func() error {
		networkRaw = a.callTextSafe(gctx, "browser_network_requests", nil, "network")
		return nil
	})
	g.Go(func() error {
		screenshot = a.takeScreenshot(gctx)
		return nil
	})
	g.Go(func() error {
		domRaw = a.callTextSafe(gctx, "browser_evaluate", map[string]any{"function": domWalkScript}, "dom-eval")
		return nil
	})

	// errgroup.Wait never returns an error here; every branch recovers
	// its own failure (spec §4.C "DOM elements are empty but the call
	// succeeds" failure semantics) instead of failing the whole context.
	_ = g.Wait()

	snapshotID := "snap-" + uuid.NewString()
	accEls := mcpparse.ParseSnapshot(snapshotRaw, snapshotID)
	accEls = filterInteractive(accEls)
	domEls := decodeDOMElements(domRaw)
	hybrids := correlate.Correlate(accEls, domEls)
	synthesizeSelectors(hybrids)

	pageInfo := a.fetchPageInfo(ctx)

	return types.PageContext{
		SnapshotID:            snapshotID,
		PageInfo:              pageInfo,
		AccessibilityElements: accEls,
		DOMElements:           domEls,
		HybridElements:        hybrids,
		ConsoleMessages:       mcpparse.ParseConsole(consoleRaw, a.now),
		NetworkRequests:       mcpparse.ParseNetwork(networkRaw, a.now),
		Screenshot:            screenshot,
	}, nil
}

// PostClickDynamicCapture re-runs only the DOM-walk after a settle delay,
// for the caller to merge into the next full context (spec §4.C
// "Post-click dynamic capture").
func (a *Acquirer) PostClickDynamicCapture(ctx context.Context) []types.DOMElement {
	select {
	case <-time.After(postClickDelay):
	case <-ctx.Done():
		return nil
	}
	raw := a.callTextSafe(ctx, "browser_evaluate", map[string]any{"function": domWalkScript}, "post-click-dom-eval")
	return decodeDOMElements(raw)
}

func (a *Acquirer) navigateIfNeeded(ctx context.Context, url string) error {
	info := a.fetchPageInfo(ctx)
	path := url
	if u, err := neturl.Parse(url); err == nil && u.Path != "" {
		path = u.Path
	}
	if strings.Contains(info.URL, path) {
		return nil
	}
	if _, err := a.sup.CallTool(ctx, "browser_navigate", map[string]any{"url": url}); err != nil {
		return err
	}
	select {
	case <-time.After(basicSettle + additionalSettle):
	case <-ctx.Done():
	}
	return nil
}

func (a *Acquirer) fetchPageInfo(ctx context.Context) types.PageInfo {
	raw := a.callTextSafe(ctx, "browser_evaluate", map[string]any{"function": pageInfoScript}, "page-info")
	var decoded struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &decoded); err != nil {
		return types.PageInfo{Timestamp: a.now()}
	}
	return types.PageInfo{URL: decoded.URL, Title: decoded.Title, Timestamp: a.now()}
}

// callTextSafe calls a tool and logs-and-swallows any error, returning an
// empty string so a failing branch never fails the whole fan-out.
func (a *Acquirer) callTextSafe(ctx context.Context, name string, args map[string]any, label string) string {
	res, err := a.sup.CallTool(ctx, name, args)
	if err != nil {
		log.Warn().Err(err).Str("branch", label).Msg("context_branch_failed")
		return ""
	}
	return mcp.TextContent(res)
}

func (a *Acquirer) takeScreenshot(ctx context.Context) []byte {
	raw := a.callTextSafe(ctx, "browser_take_screenshot", map[string]any{"raw": true, "fullPage": true}, "screenshot")
	if raw == "" {
		return nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return []byte(raw)
	}
	return decoded
}

// synthesizeSelectors runs the Selector Synthesizer over every hybrid
// element in place, so the universal invariant (exactly 5 ranked
// selectors, priorities 1..5) holds the moment a PageContext leaves the
// Acquirer — before it ever reaches a decision prompt, not just for the
// subset that later participates in a successful interaction.
func synthesizeSelectors(hybrids []types.HybridElement) {
	for i := range hybrids {
		hybrids[i].Selectors = selectors.Synthesize(hybrids[i])
	}
}

func filterInteractive(els []types.AccessibilityElement) []types.AccessibilityElement {
	out := make([]types.AccessibilityElement, 0, len(els))
	for _, el := range els {
		if interactiveRoles[el.Role] || el.Ref != "" {
			out = append(out, el)
		}
	}
	return out
}

func decodeDOMElements(raw string) []types.DOMElement {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var els []types.DOMElement
	if err := json.Unmarshal([]byte(raw), &els); err != nil {
		return nil
	}
	return els
}

