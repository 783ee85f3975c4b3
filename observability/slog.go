package observability

import (
	"context"
	"log/slog"
	"time"
)

type slogLogger struct{ l *slog.Logger }

// NewSlogLogger adapts a *slog.Logger to Logger. A nil logger yields NopLogger.
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return slogLogger{l: l}
}

func attrs(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		if f == nil {
			continue
		}
		out = append(out, slog.Any(f.Key(), f.Value()))
	}
	return out
}

func (s slogLogger) Debug(msg string, fields ...Field) { s.l.Debug(msg, attrs(fields)...) }
func (s slogLogger) Info(msg string, fields ...Field)  { s.l.Info(msg, attrs(fields)...) }
func (s slogLogger) Warn(msg string, fields ...Field)  { s.l.Warn(msg, attrs(fields)...) }
func (s slogLogger) Error(msg string, fields ...Field) { s.l.Error(msg, attrs(fields)...) }
func (s slogLogger) With(fields ...Field) Logger       { return slogLogger{l: s.l.With(attrs(fields)...)} }

// ParseLevel maps a config string to a slog level; unknown values are Info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

type logTracer struct {
	log Logger
	now func() time.Time
}

// NewLogTracer returns a Tracer that logs each finished span at Debug with
// its duration and tags.
func NewLogTracer(log Logger) Tracer {
	if log == nil {
		log = NopLogger{}
	}
	return logTracer{log: log, now: time.Now}
}

func (t logTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	return ctx, &logSpan{tracer: t, name: name, start: t.now()}
}

type logSpan struct {
	tracer logTracer
	name   string
	start  time.Time
	fields []Field
	err    error
}

func (s *logSpan) SetTag(key string, value interface{}) {
	switch v := value.(type) {
	case string:
		s.fields = append(s.fields, String(key, v))
	case int:
		s.fields = append(s.fields, Int(key, v))
	case int64:
		s.fields = append(s.fields, Int64(key, v))
	default:
		s.fields = append(s.fields, tagField{key, v})
	}
}

func (s *logSpan) SetError(err error) { s.err = err }

func (s *logSpan) Finish() {
	fields := append([]Field{String("span", s.name), Duration("duration", s.tracer.now().Sub(s.start))}, s.fields...)
	if s.err != nil {
		s.tracer.log.Warn("span failed", append(fields, Error("error", s.err))...)
		return
	}
	s.tracer.log.Debug("span finished", fields...)
}

type tagField struct {
	key string
	val interface{}
}

func (f tagField) Key() string        { return f.key }
func (f tagField) Value() interface{} { return f.val }
