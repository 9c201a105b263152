//-------------------------------------------------------------------------
//
// pgEdge Vendor Summary
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAppendsToLogFile(t *testing.T) {
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	path := filepath.Join(t.TempDir(), "vendorsummary.log")
	if err := os.WriteFile(path, []byte("existing line\n"), 0o644); err != nil {
		t.Fatalf("Failed to seed log file: %v", err)
	}

	if err := Init(Config{Level: "debug", File: path}); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	Info().Str("stage", "aggregate").Msg("Stage started")
	Debug().Msg("Debug line")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "existing line\n") {
		t.Error("Expected existing content to be preserved")
	}
	if !strings.Contains(content, `"stage":"aggregate"`) {
		t.Errorf("Expected structured stage field in log file, got: %s", content)
	}
	if !strings.Contains(content, "Debug line") {
		t.Error("Expected debug event to be written at debug level")
	}
}

func TestInitLevelFiltering(t *testing.T) {
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	path := filepath.Join(t.TempDir(), "levels.log")
	if err := Init(Config{Level: "warn", File: path}); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	Info().Msg("hidden")
	Warn().Msg("shown")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("Info event should be filtered at warn level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("Warn event should be written at warn level")
	}
}

func TestInitBadLogFile(t *testing.T) {
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	path := filepath.Join(t.TempDir(), "missing", "dir", "x.log")
	if err := Init(Config{Level: "info", File: path}); err == nil {
		t.Error("Expected error for unwritable log file path")
	}
}
