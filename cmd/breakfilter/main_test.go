package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	out, err := runCommand(t, "check", "ProcessId == 4")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, "valid") {
		t.Fatalf("expected valid verdict, got %q", out)
	}

	_, err = runCommand(t, "check", "ProcessId == )")
	var ce cliError
	if !errors.As(err, &ce) || ce.code != 2 {
		t.Fatalf("expected cliError with code 2, got %v", err)
	}
}

func TestEvalCommand(t *testing.T) {
	out, err := runCommand(t, "eval", "ProcessId == 4", "--process-id", "4")
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if !strings.Contains(out, "true") {
		t.Fatalf("expected true, got %q", out)
	}

	out, err = runCommand(t, "eval", "--engine", "cel", `ProcessName == "web"`, "--process-name", "worker")
	if err != nil {
		t.Fatalf("cel eval failed: %v", err)
	}
	if !strings.Contains(out, "false") {
		t.Fatalf("expected false, got %q", out)
	}

	if _, err := runCommand(t, "eval", "--engine", "bogus", "ProcessId == 4"); err == nil {
		t.Fatalf("expected unknown engine error")
	}
}

func TestLaunchShowCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launch.json")
	profile := `{
  "version": "1.0",
  "configurations": [{"name": "default", "hostArguments": "--roll-forward Major"}]
}`
	if err := os.WriteFile(path, []byte(profile), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	out, err := runCommand(t, "launch", "show", path, "--name", "default")
	if err != nil {
		t.Fatalf("launch show failed: %v", err)
	}
	if !strings.Contains(out, "host=dotnet") {
		t.Fatalf("expected default host, got %q", out)
	}
	if !strings.Contains(out, "hostArguments=--roll-forward Major") {
		t.Fatalf("expected profile arguments, got %q", out)
	}

	_, err = runCommand(t, "launch", "show", path, "--name", "missing")
	var ce cliError
	if !errors.As(err, &ce) || ce.code != 2 {
		t.Fatalf("expected cliError with code 2, got %v", err)
	}
}
