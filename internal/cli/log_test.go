package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	// Test that it can log
	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)

	p.done("Rendered", "format", "svg")

	out := buf.String()
	for _, want := range []string{"Rendered", "format=svg", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress.done() output = %q, want %q", out, want)
		}
	}
}

func TestProgressDebug(t *testing.T) {
	var buf bytes.Buffer

	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.debug("Loaded", "dir", "data")
	if buf.Len() != 0 {
		t.Errorf("progress.debug() at info level wrote %q", buf.String())
	}

	p = newProgress(newLogger(&buf, log.DebugLevel))
	p.debug("Loaded", "dir", "data", "files", 3)
	out := buf.String()
	for _, want := range []string{"Loaded", "dir=data", "files=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("progress.debug() output = %q, want %q", out, want)
		}
	}
}

func TestLogStyles(t *testing.T) {
	styles := logStyles()
	for _, key := range []string{"key", "err", "format"} {
		if _, ok := styles.Keys[key]; !ok {
			t.Errorf("logStyles().Keys[%q] not set", key)
		}
	}

	var buf bytes.Buffer
	newLogger(&buf, log.DebugLevel).Debug("decode failed", "key", "animals.mammals", "err", "boom")
	if out := buf.String(); !strings.Contains(out, "key=animals.mammals") || !strings.Contains(out, "err=boom") {
		t.Errorf("styled output = %q, want plain key=value fields", out)
	}
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	logger := log.Default()

	ctxWithLogger := withLogger(ctx, logger)

	// Should be able to retrieve the logger
	retrieved := loggerFromContext(ctxWithLogger)
	if retrieved != logger {
		t.Error("loggerFromContext should return the same logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	ctx := context.Background()

	// Without logger in context, should return default
	logger := loggerFromContext(ctx)
	if logger == nil {
		t.Error("loggerFromContext should return default logger when none set")
	}
}

func TestLoggerFromContextWithValue(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	customLogger := newLogger(&buf, log.InfoLevel)

	ctx = withLogger(ctx, customLogger)
	retrieved := loggerFromContext(ctx)

	if retrieved != customLogger {
		t.Error("loggerFromContext should return the custom logger")
	}

	// Verify it works by logging
	retrieved.Info("test")
	if buf.Len() == 0 {
		t.Error("custom logger should write to buffer")
	}
}
