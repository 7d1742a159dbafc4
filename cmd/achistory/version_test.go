package main

import (
	"runtime"
	"strings"
	"testing"
)

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd is nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}
}

func TestVersionOutput(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "0.1.0-test"
	GitCommit = "abc123"

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	for _, want := range []string{"achistory 0.1.0-test", "Git Commit: abc123", "Go Version: " + runtime.Version()} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"completion", "export", "list", "persist", "prune", "serve", "show", "version"}

	registered := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q is not registered", name)
		}
	}
}
