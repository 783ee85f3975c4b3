package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}

func TestSlogLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	l.With(String("component", "report")).Warn("signature skipped", Int("row", 3), Error("error", errors.New("bad png")))
	out := buf.String()
	for _, want := range []string{"level=WARN", "component=report", "row=3", `error="bad png"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output %q missing %q", out, want)
		}
	}
}

func TestNilSlogIsNop(t *testing.T) {
	if _, ok := NewSlogLogger(nil).(NopLogger); !ok {
		t.Fatalf("expected NopLogger for nil slog")
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != slog.LevelDebug {
		t.Fatalf("debug not parsed")
	}
	if ParseLevel("WARN") != slog.LevelWarn {
		t.Fatalf("WARN not parsed")
	}
	if ParseLevel("loud") != slog.LevelInfo {
		t.Fatalf("unknown level should default to info")
	}
}

func TestLogTracerLogsSpan(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	_, span := NewLogTracer(l).StartSpan(context.Background(), SpanEncode)
	span.SetTag(MetricPageCount, 2)
	span.Finish()
	out := buf.String()
	if !strings.Contains(out, "span=report.encode") || !strings.Contains(out, "report.pages.count=2") {
		t.Fatalf("unexpected span log %q", out)
	}
}
