package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithAttrsReplacesSameKey(t *testing.T) {
	ctx := WithAttrs(context.Background(), slog.String("component", "a"), slog.String("version", "v1"))
	ctx = WithComponent(ctx, "b")

	attrs := Attrs(ctx)
	if len(attrs) != 2 {
		t.Fatalf("len(attrs) = %d, want 2", len(attrs))
	}
	if attrs[0].Key != "component" || attrs[0].Value.String() != "b" {
		t.Fatalf("attrs[0] = %v, want component=b", attrs[0])
	}
}

func TestLogWritesContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "debug"))
	ctx = WithComponent(ctx, "offline.worker")

	Debug(ctx, "cache hit", slog.String("key", "GET http://localhost/"))

	out := buf.String()
	if !strings.Contains(out, "component=offline.worker") {
		t.Fatalf("log output missing component: %s", out)
	}
	if !strings.Contains(out, "cache hit") {
		t.Fatalf("log output missing message: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: " WARN ", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "", want: slog.LevelInfo},
		{input: "verbose", want: slog.LevelInfo},
	}

	for _, testCase := range testCases {
		if got := ParseLevel(testCase.input); got != testCase.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", testCase.input, got, testCase.want)
		}
	}
}
