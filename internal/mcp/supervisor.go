// Package mcp owns the child MCP server process: spawning it over stdio,
// verifying it responds, and funnelling every tool call through a single
// owner so that snapshot-scoped refs never race (spec §4.A, §5).
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	mcppkg "github.com/modelcontextprotocol/go-sdk/mcp"

	"storyforge/internal/observability"
)

var log = observability.Component("mcp")

const (
	helpProbeTimeout  = 10 * time.Second
	installTimeout    = 30 * time.Second
	implementationName = "storyforge"
)

// ServerConfig describes how to spawn the child MCP server.
type ServerConfig struct {
	Command    string
	Args       []string
	Env        map[string]string
	InstallCmd string   // e.g. "npx", run once if the --help probe fails
	InstallArgs []string
}

// Supervisor owns the lifecycle of a single child MCP server process.
// A process-wide singleton guarantees at most one live child; a second
// Start on a running Supervisor is a no-op (spec §4.A "singleton
// discipline").
type Supervisor struct {
	mu      sync.Mutex
	cfg     ServerConfig
	client  *mcppkg.Client
	session *mcppkg.ClientSession
}

var (
	singletonMu sync.Mutex
	singleton   *Supervisor
)

// Shared returns the process-wide Supervisor singleton, constructing it
// on first use. Consumers that need an isolated instance (e.g. tests)
// should construct their own with New instead.
func Shared(cfg ServerConfig) *Supervisor {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singleton == nil {
		singleton = New(cfg)
	}
	return singleton
}

// New constructs a standalone Supervisor. Most callers should prefer
// Shared; New exists for consumers that accept an injected handle
// (spec §4.A "Consumers may accept an injected handle").
func New(cfg ServerConfig) *Supervisor {
	return &Supervisor{cfg: cfg}
}

// Start verifies the MCP executable and launches it. A second Start on an
// already-connected Supervisor is a no-op.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		return nil
	}

	if err := s.probe(ctx); err != nil {
		return err
	}

	client := mcppkg.NewClient(&mcppkg.Implementation{Name: implementationName, Version: "0.1.0"}, nil)
	cmd := exec.Command(s.cfg.Command, s.cfg.Args...)
	if len(s.cfg.Env) > 0 {
		env := os.Environ()
		for k, v := range s.cfg.Env {
			env = append(env, fmt.Sprintf("%s=%s", k, v))
		}
		cmd.Env = env
	}

	session, err := client.Connect(ctx, &mcppkg.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return newError(KindConnectTimeout, "connect", err)
	}

	s.client = client
	s.session = session

	var names []string
	for tool, terr := range session.Tools(ctx, nil) {
		if terr != nil {
			break
		}
		names = append(names, tool.Name)
	}
	log.Info().Strs("tools", names).Msg("mcp_connected")
	return nil
}

// probe verifies the configured executable responds to --help within the
// startup budget, attempting a one-shot install on first failure.
func (s *Supervisor) probe(ctx context.Context) error {
	if s.helpResponds(ctx) {
		return nil
	}
	if strings.TrimSpace(s.cfg.InstallCmd) == "" {
		return newError(KindMCPUnavailable, "probe", fmt.Errorf("%s did not respond to --help", s.cfg.Command))
	}
	installCtx, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()
	if err := exec.CommandContext(installCtx, s.cfg.InstallCmd, s.cfg.InstallArgs...).Run(); err != nil {
		return newError(KindEnvBrowsersMissing, "install", err)
	}
	if s.helpResponds(ctx) {
		return nil
	}
	return newError(KindMCPUnavailable, "probe", fmt.Errorf("%s still unavailable after install", s.cfg.Command))
}

func (s *Supervisor) helpResponds(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, helpProbeTimeout)
	defer cancel()
	return exec.CommandContext(probeCtx, s.cfg.Command, "--help").Run() == nil
}

// Stop closes the client then the transport, terminating the child.
// Idempotent.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	s.client = nil
	return err
}

// IsConnected reports whether the child is currently connected.
func (s *Supervisor) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// CallTool is a thin pass-through to the MCP tool-call RPC (spec §4.A).
// It is the sole path through which any consumer touches the child
// process, enforcing single-owner serialization (spec §5).
func (s *Supervisor) CallTool(ctx context.Context, name string, args map[string]any) (*mcppkg.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, newError(KindDisconnected, name, fmt.Errorf("supervisor not started"))
	}
	res, err := s.session.CallTool(ctx, &mcppkg.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		if ctx.Err() != nil {
			return nil, newError(KindToolTimeout, name, err)
		}
		return nil, newError(KindDisconnected, name, err)
	}
	return res, nil
}

// TextContent extracts concatenated text content from a tool result,
// which is the form the Response Parser (internal/mcpparse) expects.
func TextContent(res *mcppkg.CallToolResult) string {
	if res == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range res.Content {
		if tc, ok := c.(*mcppkg.TextContent); ok {
			sb.WriteString(tc.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RawJSON marshals a tool call's raw content for callers that want the
// full structure rather than just concatenated text.
func RawJSON(res *mcppkg.CallToolResult) json.RawMessage {
	if res == nil {
		return nil
	}
	b, err := json.Marshal(res.Content)
	if err != nil {
		return nil
	}
	return b
}
