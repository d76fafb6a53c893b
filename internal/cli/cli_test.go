package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alignedworks/cvx/internal/domain"
)

// runCLI executes the root command with args and returns what it printed.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd, opts := newRootCmd()
	defer opts.closeLogs()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, dir, baseURL string) {
	t.Helper()
	cfg := "cvx:\n" +
		"  api:\n" +
		"    base_url: " + baseURL + "\n" +
		"    timeout: 5s\n" +
		"  session:\n" +
		"    idle_timeout: 30m\n" +
		"    file: .cvx/session.json\n"
	if err := os.WriteFile(filepath.Join(dir, "cvx.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
}

// --- checkFormat ---

func TestCheckFormat(t *testing.T) {
	for _, ok := range []string{"", "pretty", "json"} {
		if err := checkFormat(ok); err != nil {
			t.Errorf("checkFormat(%q) = %v, want nil", ok, err)
		}
	}
	if err := checkFormat("yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

// --- readPassword ---

func TestReadPassword(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"secret\n", "secret"},
		{"secret\r\nignored\n", "secret"},
		{"no-newline", "no-newline"},
		{"", ""},
	}
	for _, c := range cases {
		got, err := readPassword(strings.NewReader(c.input))
		if err != nil {
			t.Fatalf("readPassword(%q): %v", c.input, err)
		}
		if got != c.want {
			t.Errorf("readPassword(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

// --- groupedAmount ---

func TestGroupedAmount(t *testing.T) {
	cases := []struct {
		input float64
		want  string
	}{
		{0, "0"},
		{1234.5, "1,235"},
		{-50, "0"},
		{9000, "9,000"},
	}
	for _, c := range cases {
		if got := groupedAmount(c.input); got != c.want {
			t.Errorf("groupedAmount(%v) = %q, want %q", c.input, got, c.want)
		}
	}
}

// --- loadWorkspace ---

func TestLoadWorkspace_FallsBackToDefaults(t *testing.T) {
	ws, err := loadWorkspace(t.TempDir(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws.root != "" || ws.guard != nil {
		t.Fatalf("expected an offline workspace, got root=%q", ws.root)
	}
	if ws.cfg != domain.DefaultConfig() {
		t.Fatalf("expected default config, got %+v", ws.cfg)
	}
}

func TestLoadWorkspace_RequiredWithoutConfig(t *testing.T) {
	_, err := loadWorkspace(t.TempDir(), true)
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestLoadWorkspace_InvalidConfigIsReported(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cvx.yaml"), []byte("cvx:\n  preview:\n    cycles: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := loadWorkspace(dir, false)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestLoadWorkspace_WiresSession(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "http://127.0.0.1:1")

	ws, err := loadWorkspace(dir, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws.root != dir || ws.guard == nil || ws.sessions == nil {
		t.Fatalf("expected session wiring, got %+v", ws)
	}
	if ws.cfg.API.BaseURL != "http://127.0.0.1:1" {
		t.Fatalf("unexpected base url %q", ws.cfg.API.BaseURL)
	}

	_, err = ws.sessionAPI()
	if !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected no-session error, got %v", err)
	}
}

// --- init / version ---

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, "", "init", "-w", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Initialized cvx workspace") {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "cvx.yaml")); err != nil {
		t.Fatalf("expected cvx.yaml: %v", err)
	}

	out, err = runCLI(t, "", "init", "-w", dir)
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	if !strings.Contains(out, "kept  cvx.yaml") {
		t.Fatalf("expected cvx.yaml kept: %q", out)
	}
}

func TestInitCmd_Settings(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "", "init", "-w", dir,
		"--api-url", "https://cvx.example.org", "--idle-timeout", "5m", "--cycles", "4")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "cvx.yaml"))
	if err != nil {
		t.Fatalf("read cvx.yaml: %v", err)
	}
	for _, want := range []string{"base_url: https://cvx.example.org", "idle_timeout: 5m0s", "cycles: 4"} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("expected %q in cvx.yaml:\n%s", want, b)
		}
	}

	_, err = runCLI(t, "", "init", "-w", t.TempDir(), "--api-url", "not a url")
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "", "version", "-w", t.TempDir())
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "cvx ") {
		t.Fatalf("unexpected output: %q", out)
	}
}
