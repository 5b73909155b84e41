package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"LLM_PROVIDER", "ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "OPENAI_API_KEY",
		"OPENAI_MODEL", "OPENAI_BASE_URL", "LOG_PATH", "LOG_LEVEL",
		"OTEL_SERVICE_NAME", "SERVICE_VERSION", "ENVIRONMENT", "MCP_COMMAND",
		"MCP_ARGS", "LOOP_STEP_TIMEOUT_SECONDS", "LOOP_MAX_STEPS", "STORYFORGE_MCP_CONFIG",
	}
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_MissingCommandErrors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Fatalf("expected an error when no MCP command is configured")
	}
}

func TestLoad_BasicEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCP_COMMAND", "npx")
	t.Setenv("MCP_ARGS", "-y playwright-mcp")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MCP.Command != "npx" {
		t.Fatalf("expected command npx, got %s", cfg.MCP.Command)
	}
	if len(cfg.MCP.Args) != 2 || cfg.MCP.Args[0] != "-y" {
		t.Fatalf("unexpected args: %+v", cfg.MCP.Args)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Fatalf("expected provider inferred as anthropic, got %s", cfg.LLM.Provider)
	}
}

func TestLoad_YAMLOverlay(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "mcp.yaml")
	yamlContent := "server:\n  command: npx\n  args:\n    - \"-y\"\n    - \"@playwright/mcp\"\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	t.Setenv("STORYFORGE_MCP_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MCP.Command != "npx" {
		t.Fatalf("expected overlay command npx, got %s", cfg.MCP.Command)
	}
	if len(cfg.MCP.Args) != 2 || cfg.MCP.Args[1] != "@playwright/mcp" {
		t.Fatalf("unexpected overlay args: %+v", cfg.MCP.Args)
	}
}

func TestLoad_LoopOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCP_COMMAND", "npx")
	t.Setenv("LOOP_STEP_TIMEOUT_SECONDS", "45")
	t.Setenv("LOOP_MAX_STEPS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Loop.StepTimeout.Seconds() != 45 {
		t.Fatalf("expected 45s step timeout, got %v", cfg.Loop.StepTimeout)
	}
	if cfg.Loop.MaxSteps != 10 {
		t.Fatalf("expected max steps 10, got %d", cfg.Loop.MaxSteps)
	}
}
