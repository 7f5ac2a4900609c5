package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/shirushi/internal/cli"
)

func TestReorderArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after phrase are moved first",
			args:     []string{"revenue grew 12.8%", "-file", "report.pdf"},
			expected: []string{"-file", "report.pdf", "revenue grew 12.8%"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-file", "report.pdf", "revenue grew 12.8%"},
			expected: []string{"-file", "report.pdf", "revenue grew 12.8%"},
		},
		{
			name:     "phrase only returns unchanged",
			args:     []string{"revenue grew 12.8%"},
			expected: []string{"revenue grew 12.8%"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"total", "liabilities", "-page", "3"},
			expected: []string{"-page", "3", "total", "liabilities"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reorderArgs(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("reorderArgs() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildPhrase(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"indemnification"}, "indemnification"},
		{"multiple words", []string{"revenue", "grew"}, "revenue grew"},
		{"single quoted phrase", []string{"revenue grew"}, "revenue grew"},
		{"three words", []string{"total", "contract", "value"}, "total contract value"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
		{"one space", []string{" "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPhrase(tt.args)
			if got != tt.expected {
				t.Errorf("buildPhrase(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestOutputFormatFromFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    cli.OutputFormat
		wantErr bool
	}{
		{"text", "text", cli.OutputText, false},
		{"json", "json", cli.OutputJSON, false},
		{"empty defaults to text", "", cli.OutputText, false},
		{"unknown", "yaml", cli.OutputText, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputFormatFromFlag(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("outputFormatFromFlag(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("outputFormatFromFlag(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}
