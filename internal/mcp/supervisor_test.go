package mcp

import (
	"context"
	"testing"
	"time"
)

func TestKindFatal(t *testing.T) {
	fatal := []Kind{KindEnvBrowsersMissing, KindMCPUnavailable, KindConnectTimeout, KindDisconnected}
	for _, k := range fatal {
		if !k.Fatal() {
			t.Fatalf("%s should be fatal", k)
		}
	}
	if KindToolTimeout.Fatal() {
		t.Fatalf("%s should be recoverable", KindToolTimeout)
	}
}

func TestSupervisor_StartMissingBinary(t *testing.T) {
	s := New(ServerConfig{Command: "storyforge-definitely-not-a-real-binary"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.Start(ctx)
	if err == nil {
		t.Fatalf("expected error for missing binary")
	}
	me, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if me.Kind != KindMCPUnavailable {
		t.Fatalf("expected %s, got %s", KindMCPUnavailable, me.Kind)
	}
	if s.IsConnected() {
		t.Fatalf("should not be connected")
	}
}

func TestSupervisor_StopIdempotent(t *testing.T) {
	s := New(ServerConfig{Command: "nope"})
	if err := s.Stop(); err != nil {
		t.Fatalf("stop on unstarted supervisor should be a no-op: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("stop should be idempotent: %v", err)
	}
}

func TestSupervisor_CallToolBeforeStart(t *testing.T) {
	s := New(ServerConfig{Command: "nope"})
	_, err := s.CallTool(context.Background(), "browser_snapshot", nil)
	if err == nil {
		t.Fatalf("expected error calling tool before start")
	}
	me, ok := err.(*Error)
	if !ok || me.Kind != KindDisconnected {
		t.Fatalf("expected MCP_DISCONNECTED, got %v", err)
	}
}

func TestShared_Singleton(t *testing.T) {
	a := Shared(ServerConfig{Command: "a"})
	b := Shared(ServerConfig{Command: "b"})
	if a != b {
		t.Fatalf("Shared should return the same instance across calls")
	}
}
