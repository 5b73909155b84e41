package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitLogger_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "storyforge.log")

	InitLogger(logPath, "debug")
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %v", zerolog.GlobalLevel())
	}

	log.Info().Msg("hello")

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("expected non-empty log file")
	}
}

func TestInitLogger_NormalizesWarningLevel(t *testing.T) {
	InitLogger("", "warning")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level after normalizing 'warning', got %v", zerolog.GlobalLevel())
	}
}

func TestInitLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	InitLogger("", "not-a-level")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info level fallback, got %v", zerolog.GlobalLevel())
	}
}

func TestComponent_TagsLoggerWithName(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "component.log")
	InitLogger(logPath, "debug")

	Component("pagectx").Info().Msg("acquiring context")

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if !strings.Contains(string(b), `"component":"pagectx"`) {
		t.Fatalf("expected component field in log output, got: %s", b)
	}
}
