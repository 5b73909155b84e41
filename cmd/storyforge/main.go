// Command storyforge drives a browser through a user story via an MCP
// browser-automation server and an LLM backend, then synthesizes a
// Playwright-style page object and test steps from the exploration.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"storyforge/internal/artifact"
	"storyforge/internal/config"
	"storyforge/internal/llmbackend"
	"storyforge/internal/llmbackend/anthropic"
	"storyforge/internal/llmbackend/openai"
	"storyforge/internal/mcp"
	"storyforge/internal/navigate"
	"storyforge/internal/observability"
	"storyforge/internal/pagectx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	baseURL := flag.String("base-url", "", "Base URL of the application under test")
	testPath := flag.String("test-path", "/", "Path to navigate to for the first user-story step")
	storyFile := flag.String("story", "", "Path to a newline-delimited user story file (one step per line); '-' reads stdin")
	flag.Parse()

	if *baseURL == "" {
		fmt.Fprintln(os.Stderr, "usage: storyforge -base-url https://app.example.com -test-path /login -story story.txt")
		os.Exit(2)
	}

	story, err := readStory(*storyFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "story:", err)
		os.Exit(2)
	}
	if len(story) == 0 {
		story = []string{fmt.Sprintf("navigate to %s", *testPath)}
	}

	observability.InitLogger(cfg.LogPath, cfg.LogLevel)
	log.Info().Msg("storyforge starting")

	baseCtx := context.Background()
	shutdown, err := observability.InitTracing(baseCtx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Environment)
	if err != nil {
		log.Warn().Err(err).Msg("tracing init failed, continuing without spans")
	} else {
		defer func() { _ = shutdown(context.Background()) }()
	}

	result, err := run(baseCtx, cfg, *baseURL, *testPath, story)
	if err != nil {
		log.Fatal().Err(err).Msg("storyforge")
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("marshal artifact")
	}
	fmt.Println(string(out))
}

func run(ctx context.Context, cfg config.Config, baseURL, testPath string, story []string) (any, error) {
	sup := mcp.New(mcp.ServerConfig{
		Command:     cfg.MCP.Command,
		Args:        cfg.MCP.Args,
		Env:         cfg.MCP.Env,
		InstallCmd:  cfg.MCP.InstallCmd,
		InstallArgs: cfg.MCP.InstallArgs,
	})
	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sup.Start(startCtx); err != nil {
		return nil, fmt.Errorf("start mcp supervisor: %w", err)
	}
	defer func() { _ = sup.Stop() }()

	backend, err := buildBackend(cfg.LLM)
	if err != nil {
		return nil, err
	}

	acquirer := pagectx.New(sup)
	tracer := observability.Tracer("storyforge/navigate")
	loop := navigate.New(sup, acquirer, backend, tracer)

	runCtx := ctx
	var runCancel context.CancelFunc
	if cfg.Loop.StepTimeout > 0 {
		runCtx, runCancel = context.WithTimeout(ctx, cfg.Loop.StepTimeout*time.Duration(max(1, cfg.Loop.MaxSteps)))
		defer runCancel()
	}

	result, err := loop.Run(runCtx, baseURL, testPath, story)
	if err != nil {
		return nil, fmt.Errorf("navigation loop: %w", err)
	}

	synth := artifact.New(backend)
	return synth.Synthesize(ctx, story, testPath, result), nil
}

func buildBackend(cfg config.LLMConfig) (llmbackend.Backend, error) {
	switch cfg.Provider {
	case "openai":
		return openai.New(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case "anthropic":
		return anthropic.New(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func readStory(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f := os.Stdin
	if path != "-" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
	}

	var steps []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		steps = append(steps, line)
	}
	return steps, scanner.Err()
}
