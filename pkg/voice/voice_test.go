package voice

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func stubBinary(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
}

func TestDisabledEngineIgnoresHostBinaries(t *testing.T) {
	dir := t.TempDir()
	stubBinary(t, dir, "espeak")
	t.Setenv("PATH", dir)

	// Disabled voice means no engine is constructed at all; a host
	// espeak must not bring speech back.
	var e *Engine
	if e.TTSAvailable() {
		t.Fatalf("nil engine reports speech output available")
	}
	if e.STTAvailable() {
		t.Fatalf("nil engine reports speech capture available")
	}
	e.Say(context.Background(), "hello")
	if got := e.ListenOnce(context.Background()); got != "" {
		t.Fatalf("nil engine captured %q", got)
	}
}

func TestEngineWithoutBinaries(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	e := NewEngine("", "")
	if e.TTSAvailable() || e.STTAvailable() {
		t.Fatalf("no speech binaries on PATH, but capabilities reported")
	}
}

func TestEnginePrefersConfiguredCommand(t *testing.T) {
	dir := t.TempDir()
	stubBinary(t, dir, "espeak")
	stubBinary(t, dir, "customtts")
	t.Setenv("PATH", dir)

	e := NewEngine("customtts", "")
	if e.ttsCmd != "customtts" {
		t.Fatalf("ttsCmd = %q, want configured command", e.ttsCmd)
	}
}

func TestEngineFallsBackToCandidates(t *testing.T) {
	dir := t.TempDir()
	stubBinary(t, dir, "espeak")
	t.Setenv("PATH", dir)

	e := NewEngine("missing-command", "")
	if e.ttsCmd != "espeak" {
		t.Fatalf("ttsCmd = %q, want espeak candidate", e.ttsCmd)
	}
}
