package logger

import (
	"bytes"
	"context"
	"testing"

	kit "linkmap/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":     zerolog.TraceLevel,
		"debug":     zerolog.DebugLevel,
		"INFO":      zerolog.InfoLevel,
		"warning":   zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"":          zerolog.InfoLevel,
		" bananas ": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInit_ChildLoggers(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "debug",
		Format:       "console",
		Service:      "linkmap-test",
		Writer:       &buf,
		WithCaller:   true,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	emit := func(l *Logger, msg string) {
		s := l.Sample(&zerolog.BasicSampler{N: 1})
		s.Info().Msg(msg)
	}

	emit(Get(), "root-msg")
	emit(Named("ingest"), "named-msg")

	ctx := WithRun(WithRequest(context.Background(), "req-123"), "run-9")
	emit(C(ctx), "ctx-msg")
	emit(C(context.Background()), "bare-msg")

	out := buf.String()
	for _, want := range []string{"root-msg", "named-msg", "ctx-msg", "bare-msg", "ingest", "req-123", "run-9", "linkmap-test", "build="} {
		kit.MustContain(t, out, want)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_COMPONENT", "cli")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Component != "cli" {
		t.Fatalf("FromEnv mismatch: %+v", opt)
	}
	if opt.Service != DefaultService {
		t.Fatalf("service default = %q", opt.Service)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("caller/sample mismatch: %+v", opt)
	}
}

func TestRequestID(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("empty ctx gave %q", got)
	}
	ctx := WithRequest(context.Background(), "")
	if got := RequestID(ctx); got != "" {
		t.Fatalf("blank id should not be stored, got %q", got)
	}
	ctx = WithRequest(ctx, "abc")
	if got := RequestID(ctx); got != "abc" {
		t.Fatalf("RequestID = %q", got)
	}
}
