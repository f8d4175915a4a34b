package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"safemedia/internal/access"
)

type cliTestEnv struct {
	baseDir    string
	stateDir   string
	configPath string
}

func setupCLITestEnv(t *testing.T, geminiBaseURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	stateDir := filepath.Join(base, "state")
	logDir := filepath.Join(base, "logs")
	configPath := filepath.Join(base, "config.toml")

	content := fmt.Sprintf(`[gemini]
api_key = "test-key"
base_url = %q
model = "gemini-2.5-flash"

[payment]
link = "https://pay.example.com/checkout"

[paths]
state_dir = %q
log_dir = %q
api_bind = "127.0.0.1:0"

[voice]
enabled = false

[history]
enabled = true

[logging]
format = "text"
level = "info"
`, geminiBaseURL, stateDir, logDir)

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		stateDir:   stateDir,
		configPath: configPath,
	}
}

func (env *cliTestEnv) grantAccess(t *testing.T) {
	t.Helper()
	if err := os.MkdirAll(env.stateDir, 0o755); err != nil {
		t.Fatalf("create state dir: %v", err)
	}
	gate, err := access.NewGate(access.NewFileStore(env.stateDir))
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	if err := gate.Grant(); err != nil {
		t.Fatalf("Grant: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
