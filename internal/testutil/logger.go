// Package testutil provides logging helpers for tests.
package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// NewTestLogger returns a debug-level logger that writes to t.Log.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	logger, _ := NewCaptureLogger(t)
	return logger
}

// LogCapture collects the text-handler lines written by a capture logger.
// It is safe for concurrent use.
type LogCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Lines returns the captured lines in write order.
func (c *LogCapture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := strings.TrimRight(c.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Contains reports whether any captured line contains every one of parts.
func (c *LogCapture) Contains(parts ...string) bool {
	for _, line := range c.Lines() {
		matched := true
		for _, p := range parts {
			if !strings.Contains(line, p) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// NewCaptureLogger returns a debug-level logger that writes both to t.Log
// and to the returned capture.
func NewCaptureLogger(t testing.TB) (*slog.Logger, *LogCapture) {
	t.Helper()
	c := &LogCapture{}
	h := slog.NewTextHandler(captureWriter{t: t, c: c}, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), c
}

type captureWriter struct {
	t testing.TB
	c *LogCapture
}

func (w captureWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.c.mu.Lock()
	w.c.buf.Write(p)
	w.c.mu.Unlock()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
