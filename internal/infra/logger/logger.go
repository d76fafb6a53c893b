package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Config selects where logs go. Logs live in <Root>/.cvx/logs/cvx.log.
type Config struct {
	Root  string
	Debug bool
}

const redacted = "[redacted]"

// sensitive attribute keys never reach the log file in clear text.
var sensitive = map[string]bool{
	"password": true,
	"cookie":   true,
	"cookies":  true,
	"token":    true,
	"auth":     true,
}

var (
	mu      sync.RWMutex
	global  = discard()
	logFile *os.File
	logPath string
)

func discard() *slog.Logger { return slog.New(slog.NewJSONHandler(io.Discard, nil)) }

// Setup points the global logger at the workspace log file. The returned
// cleanup closes the file and puts the discard logger back.
func Setup(cfg Config) (func() error, error) {
	root := filepath.Clean(cfg.Root)

	dir := filepath.Join(root, ".cvx", "logs")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		reset()
		return nil, err
	}

	path := filepath.Join(dir, "cvx.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		reset()
		return nil, err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	l := slog.New(newHandler(f, level, cfg.Debug)).With("pid", os.Getpid())

	mu.Lock()
	global, logFile, logPath = l, f, path
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug)

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		global, logFile, logPath = discard(), nil, ""
		return cerr
	}, nil
}

func newHandler(w io.Writer, level slog.Level, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   addSource,
		ReplaceAttr: replaceAttr,
	})
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch {
	case a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime:
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
	case sensitive[strings.ToLower(a.Key)]:
		a.Value = slog.StringValue(redacted)
	}
	return a
}

// L returns the process-wide logger (a discard logger until Setup succeeds).
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Path is the active log file, or "" before Setup.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	global, logFile, logPath = discard(), nil, ""
}
