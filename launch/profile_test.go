package launch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

const jsonProfile = `{
  "version": "1.0",
  "configurations": [
    {"name": "default", "host": "dotnet", "hostArguments": "--roll-forward Major"},
    {"name": "self-contained"}
  ]
}`

func TestLoadProfilesJSON(t *testing.T) {
	path := writeProfile(t, "launch.json", jsonProfile)

	doc, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles failed: %v", err)
	}
	if doc.Version != "1.0" {
		t.Fatalf("unexpected version %q", doc.Version)
	}
	if len(doc.Configurations) != 2 {
		t.Fatalf("expected 2 configurations, got %d", len(doc.Configurations))
	}

	cfg, ok := doc.Find("default")
	if !ok {
		t.Fatalf("expected to find default configuration")
	}
	opts := cfg.Options()
	if opts.HostOrDefault("") != "dotnet" {
		t.Fatalf("unexpected host %q", opts.HostOrDefault(""))
	}
	if opts.HostArgumentsOrDefault("") != "--roll-forward Major" {
		t.Fatalf("unexpected arguments %q", opts.HostArgumentsOrDefault(""))
	}

	bare, ok := doc.Find("self-contained")
	if !ok {
		t.Fatalf("expected to find self-contained configuration")
	}
	if bare.Options().Host != nil {
		t.Fatalf("absent host should stay unset")
	}
}

func TestLoadProfilesYAML(t *testing.T) {
	path := writeProfile(t, "launch.yaml", strings.Join([]string{
		`version: "1.0"`,
		`configurations:`,
		`  - name: default`,
		`    host: dotnet`,
	}, "\n"))

	doc, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles failed: %v", err)
	}
	cfg, ok := doc.Find("default")
	if !ok {
		t.Fatalf("expected to find default configuration")
	}
	if cfg.Options().HostOrDefault("") != "dotnet" {
		t.Fatalf("unexpected host %q", cfg.Options().HostOrDefault(""))
	}
}

func TestLoadProfilesRejectsSchemaViolations(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{name: "missing-name", content: `{"version": "1.0", "configurations": [{"host": "dotnet"}]}`},
		{name: "unknown-key", content: `{"version": "1.0", "configurations": [{"name": "a", "hostPath": "dotnet"}]}`},
		{name: "missing-version", content: `{"configurations": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeProfile(t, "launch.json", tc.content)
			_, err := LoadProfiles(path)
			if err == nil {
				t.Fatalf("expected schema violation")
			}
			if !strings.Contains(err.Error(), "invalid") {
				t.Fatalf("expected invalid-profile error, got %v", err)
			}
		})
	}
}

func TestLoadProfilesRejectsMalformedJSON(t *testing.T) {
	path := writeProfile(t, "launch.json", `{"version": `)
	if _, err := LoadProfiles(path); err == nil {
		t.Fatalf("expected JSON parse failure")
	}
}

func TestLoadProfilesMissingFile(t *testing.T) {
	if _, err := LoadProfiles(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected read failure")
	}
}
