package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, root string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, ".cvx", "logs", "cvx.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(b)
}

func TestSetupWritesJSONLog(t *testing.T) {
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root, Debug: true})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	L().Debug("session.touched", "user", "u1")

	want := filepath.Join(root, ".cvx", "logs", "cvx.log")
	if Path() != want {
		t.Fatalf("expected path %s, got %s", want, Path())
	}

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if Path() != "" {
		t.Fatalf("expected logger reset after cleanup")
	}

	out := readLog(t, root)
	if !strings.Contains(out, `"msg":"logger.initialized"`) {
		t.Fatalf("expected init line, got %s", out)
	}
	if !strings.Contains(out, `"msg":"session.touched"`) || !strings.Contains(out, `"user":"u1"`) {
		t.Fatalf("expected debug line, got %s", out)
	}
}

func TestSetupInfoLevelDropsDebug(t *testing.T) {
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	L().Debug("hidden.event")
	_ = cleanup()

	if strings.Contains(readLog(t, root), "hidden.event") {
		t.Fatalf("debug line should be filtered at info level")
	}
}

func TestSetupRedactsSecrets(t *testing.T) {
	root := t.TempDir()

	cleanup, err := Setup(Config{Root: root})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	L().Info("auth.login", "email", "ana@example.org", "password", "hunter2", "Cookie", "auth=abc")
	_ = cleanup()

	out := readLog(t, root)
	for _, secret := range []string{"hunter2", "auth=abc"} {
		if strings.Contains(out, secret) {
			t.Fatalf("secret %q leaked into log: %s", secret, out)
		}
	}
	if !strings.Contains(out, `"email":"ana@example.org"`) || !strings.Contains(out, `"password":"[redacted]"`) {
		t.Fatalf("unexpected log line: %s", out)
	}
}
