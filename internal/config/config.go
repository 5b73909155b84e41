// Package config loads storyforge's configuration: MCP server spawn
// parameters, LLM provider selection/credentials, and loop timeouts.
// Values come from environment variables (a .env file is loaded first,
// if present) with an optional YAML overlay for the MCP server entry,
// mirroring the teacher's env-first/YAML-overlay layering.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MCPServerConfig describes how to spawn the child MCP server.
type MCPServerConfig struct {
	Command     string            `yaml:"command"`
	Args        []string          `yaml:"args"`
	Env         map[string]string `yaml:"env"`
	InstallCmd  string            `yaml:"installCmd"`
	InstallArgs []string          `yaml:"installArgs"`
}

// LLMConfig selects and authenticates the LLM backend.
type LLMConfig struct {
	Provider string // "anthropic" | "openai"
	APIKey   string
	Model    string
	BaseURL  string
}

// LoopConfig bounds the Navigation Loop's timing.
type LoopConfig struct {
	StepTimeout    time.Duration
	SettleDelay    time.Duration
	MaxSteps       int
}

// Config is the fully resolved configuration for one storyforge run.
type Config struct {
	MCP       MCPServerConfig
	LLM       LLMConfig
	Loop      LoopConfig
	LogPath   string
	LogLevel  string
	OTEL      ObsConfig
}

// ObsConfig names the process for tracing purposes.
type ObsConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

const (
	defaultStepTimeout = 30 * time.Second
	defaultSettleDelay = 800 * time.Millisecond
	defaultMaxSteps    = 25
)

// Load builds a Config from the environment (after loading a .env file,
// if present) and an optional YAML overlay naming the MCP server to
// spawn (path given by STORYFORGE_MCP_CONFIG).
func Load() (Config, error) {
	_ = godotenv.Overload()

	cfg := Config{
		LLM: LLMConfig{
			Provider: strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))),
			APIKey:   strings.TrimSpace(firstNonEmpty(os.Getenv("ANTHROPIC_API_KEY"), os.Getenv("OPENAI_API_KEY"))),
			Model:    strings.TrimSpace(firstNonEmpty(os.Getenv("ANTHROPIC_MODEL"), os.Getenv("OPENAI_MODEL"))),
			BaseURL:  strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		},
		Loop: LoopConfig{
			StepTimeout: defaultStepTimeout,
			SettleDelay: defaultSettleDelay,
			MaxSteps:    defaultMaxSteps,
		},
		LogPath:  strings.TrimSpace(os.Getenv("LOG_PATH")),
		LogLevel: strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		OTEL: ObsConfig{
			ServiceName:    firstNonEmpty(strings.TrimSpace(os.Getenv("OTEL_SERVICE_NAME")), "storyforge"),
			ServiceVersion: firstNonEmpty(strings.TrimSpace(os.Getenv("SERVICE_VERSION")), "0.1.0"),
			Environment:    firstNonEmpty(strings.TrimSpace(os.Getenv("ENVIRONMENT")), "development"),
		},
		MCP: MCPServerConfig{
			Command: strings.TrimSpace(os.Getenv("MCP_COMMAND")),
			Args:    splitArgs(os.Getenv("MCP_ARGS")),
		},
	}

	if cfg.LLM.Provider == "" {
		if cfg.LLM.APIKey != "" && os.Getenv("ANTHROPIC_API_KEY") != "" {
			cfg.LLM.Provider = "anthropic"
		} else {
			cfg.LLM.Provider = "openai"
		}
	}

	if v := strings.TrimSpace(os.Getenv("LOOP_STEP_TIMEOUT_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Loop.StepTimeout = time.Duration(n) * time.Second
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOOP_MAX_STEPS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Loop.MaxSteps = n
		}
	}

	if path := strings.TrimSpace(os.Getenv("STORYFORGE_MCP_CONFIG")); path != "" {
		if err := overlayMCPFromYAML(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("load mcp overlay: %w", err)
		}
	}

	if cfg.MCP.Command == "" {
		return Config{}, fmt.Errorf("MCP_COMMAND (or STORYFORGE_MCP_CONFIG) must name the MCP server executable")
	}

	return cfg, nil
}

type mcpServerYAML struct {
	Name        string            `yaml:"name"`
	Command     string            `yaml:"command"`
	Args        []string          `yaml:"args"`
	Env         map[string]string `yaml:"env"`
	InstallCmd  string            `yaml:"installCmd"`
	InstallArgs []string          `yaml:"installArgs"`
}

type mcpYAML struct {
	Server mcpServerYAML `yaml:"server"`
}

func overlayMCPFromYAML(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc mcpYAML
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return err
	}
	s := doc.Server
	if s.Command != "" {
		cfg.MCP.Command = s.Command
	}
	if len(s.Args) > 0 {
		cfg.MCP.Args = s.Args
	}
	if len(s.Env) > 0 {
		cfg.MCP.Env = s.Env
	}
	if s.InstallCmd != "" {
		cfg.MCP.InstallCmd = s.InstallCmd
	}
	if len(s.InstallArgs) > 0 {
		cfg.MCP.InstallArgs = s.InstallArgs
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func splitArgs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
