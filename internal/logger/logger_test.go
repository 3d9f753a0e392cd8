package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPrettyHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := Pretty(&buf, slog.LevelWarn)
	l.Info("hidden")
	l.Warn("visible", "k", 1)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "k=") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := Pretty(&buf, slog.LevelInfo).With("run", "abc")
	l.Info("msg")
	if !strings.Contains(buf.String(), "run=") {
		t.Fatalf("bound attr missing: %q", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := JSON(&buf, slog.LevelInfo)
	ctx := WithContext(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Fatal("context did not return the attached logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Fatal("empty context must fall back to a default logger")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
