// Package mcpparse implements the Response Parser (spec §4.B): MCP tool
// results are heterogeneous — JSON, Markdown-wrapped JSON, or bespoke
// YAML-like/annotated text — and must be turned into typed values
// without ever panicking on malformed input.
package mcpparse

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"storyforge/internal/types"
)

var (
	resultBlockRe = regexp.MustCompile(`(?s)###\s*Result\s*\n(.*)`)
	refLineRe     = regexp.MustCompile(`\[ref=([^\]]+)\]`)
	quotedNameRe  = regexp.MustCompile(`"([^"]*)"`)
	leadingWordRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_-]*`)
	kvAttrRe      = regexp.MustCompile(`\[([A-Za-z][A-Za-z0-9_-]*)=([^\]]*)\]`)
	boolAttrRe    = regexp.MustCompile(`\[(disabled|checked|expanded|required|readonly)\]`)
	consoleLineRe = regexp.MustCompile(`\[(WARNING|ERROR|LOG)\]\s*(.*)`)
	networkLineRe = regexp.MustCompile(`\[([A-Z]+)\]\s*(\S+)\s*=>\s*\[(\d+)\]`)
)

// SafeParse implements the generic lossless-safe-parse algorithm from
// spec §4.B steps 2-3 on a raw text payload: try strict JSON, then the
// three JSON-extraction patterns in order. It never errors; callers
// supply the value returned on empty input or total failure.
func SafeParse(raw string, fallback any) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback
	}

	var v any
	if json.Unmarshal([]byte(trimmed), &v) == nil {
		return v
	}

	if m := resultBlockRe.FindStringSubmatch(trimmed); m != nil {
		if body := strings.TrimSpace(m[1]); json.Unmarshal([]byte(body), &v) == nil {
			return v
		}
	}

	if i, j := strings.Index(trimmed, "{"), strings.LastIndex(trimmed, "}"); i >= 0 && j > i {
		if json.Unmarshal([]byte(trimmed[i:j+1]), &v) == nil {
			return v
		}
	}

	if i, j := strings.Index(trimmed, "["), strings.LastIndex(trimmed, "]"); i >= 0 && j > i {
		if json.Unmarshal([]byte(trimmed[i:j+1]), &v) == nil {
			return v
		}
	}

	return fallback
}

// ParseSnapshot extracts accessibility elements from a browser_snapshot
// payload. Any line not carrying a [ref=...] annotation is ignored; a
// payload with zero such lines yields an empty, non-nil slice rather
// than an error (spec §4.B step 4, §8 boundary behavior).
func ParseSnapshot(raw string, snapshotID string) []types.AccessibilityElement {
	out := make([]types.AccessibilityElement, 0)
	for _, line := range strings.Split(raw, "\n") {
		refs := refLineRe.FindStringSubmatch(line)
		if refs == nil {
			continue
		}
		el := types.AccessibilityElement{
			Ref:        refs[1],
			SnapshotID: snapshotID,
			Attributes: map[string]string{},
		}
		if role := leadingWordRe.FindString(strings.TrimLeft(line, "- \t")); role != "" {
			el.Role = role
		}
		if name := quotedNameRe.FindStringSubmatch(line); name != nil {
			el.Name = name[1]
		}
		for _, kv := range kvAttrRe.FindAllStringSubmatch(line, -1) {
			key, val := kv[1], kv[2]
			if key == "ref" {
				continue
			}
			el.Attributes[key] = val
		}
		for _, b := range boolAttrRe.FindAllStringSubmatch(line, -1) {
			switch b[1] {
			case "disabled":
				el.Disabled = true
			case "checked":
				el.Checked = true
			case "expanded":
				el.Expanded = true
			case "required", "readonly":
				el.Attributes[b[1]] = "true"
			}
		}
		out = append(out, el)
	}
	return out
}

// ParseConsole extracts console messages from a browser_console_messages
// payload. now is injected so parsing stays deterministic under test.
func ParseConsole(raw string, now func() time.Time) []types.ConsoleMessage {
	out := make([]types.ConsoleMessage, 0)
	for _, line := range strings.Split(raw, "\n") {
		m := consoleLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, types.ConsoleMessage{
			Level:     strings.ToLower(m[1]),
			Message:   strings.TrimSpace(m[2]),
			Timestamp: now(),
		})
	}
	return out
}

// ParseNetwork extracts network requests from a browser_network_requests
// payload, lines of shape "[METHOD] URL => [STATUS]".
func ParseNetwork(raw string, now func() time.Time) []types.NetworkRequest {
	out := make([]types.NetworkRequest, 0)
	for _, line := range strings.Split(raw, "\n") {
		m := networkLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		status, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		out = append(out, types.NetworkRequest{
			Method:    m[1],
			URL:       m[2],
			Status:    status,
			Timestamp: now(),
		})
	}
	return out
}
