package logger

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func captureLine(t *testing.T, format logFormat, emit func(log *slog.Logger)) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	emit(slog.New(handler))
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	return line
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(Background(), "rid-123"), 42, 7, 9)
	line := captureLine(t, formatKV, func(log *slog.Logger) {
		LogEvent(ctx, log.With("component", CompRouter), slog.LevelInfo, "action.dispatched",
			slog.String("status", "ok"),
			slog.String("action", "admin_panel"),
		)
	})

	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=service.router", "event=action.dispatched", "status=ok", "rid=rid-123", "update_id=42", "user_id=7", "chat_id=9", "action=admin_panel"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	ctx := WithRID(Background(), "rid-json")
	line := captureLine(t, formatJSON, func(log *slog.Logger) {
		LogEvent(ctx, log.With("component", CompBroadcast), slog.LevelError, "broadcast.failed",
			slog.String("status", "fail"),
			slog.String("err", "boom"),
		)
	})
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"service.broadcast"`, `"event":"broadcast.failed"`, `"status":"fail"`, `"rid":"rid-json"`, `"err":"boom"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	rawRID := BuildRID(123, 456, 789)
	ctx := WithRID(Background(), rawRID)

	kv := captureLine(t, formatKV, func(log *slog.Logger) {
		LogEvent(ctx, log, slog.LevelInfo, "rid.test")
	})
	if !strings.Contains(kv, "rid="+CompactRID(rawRID)) {
		t.Fatalf("expected compact rid, got %s", kv)
	}
	if strings.Contains(kv, "rid_full=") {
		t.Fatalf("rid_full should be omitted in KV output, got %s", kv)
	}

	js := captureLine(t, formatJSON, func(log *slog.Logger) {
		LogEvent(ctx, log, slog.LevelInfo, "rid.test")
	})
	if !strings.Contains(js, `"rid_full":"`+rawRID+`"`) {
		t.Fatalf("expected rid_full in JSON output, got %s", js)
	}
	if !strings.Contains(js, `"component":"app"`) {
		t.Fatalf("expected default component, got %s", js)
	}
}

func TestStructuredHandlerNormalizesFields(t *testing.T) {
	line := captureLine(t, formatKV, func(log *slog.Logger) {
		log.LogAttrs(Background(), slog.LevelInfo, "handler.handled",
			slog.Duration("duration", 1500*time.Microsecond),
			slog.Duration("send_duration", 3*time.Millisecond),
			slog.String("outcome", "bogus"),
			slog.String("status", "OK"),
			slog.String("empty", ""),
		)
	})
	for _, want := range []string{"event=handler.handled", "duration_ms=2", "send_duration_ms=3", "status=ok"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %s", want, line)
		}
	}
	for _, unwanted := range []string{"outcome=", "empty="} {
		if strings.Contains(line, unwanted) {
			t.Fatalf("unexpected %q in %s", unwanted, line)
		}
	}
}

func TestCompactRIDPassthrough(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"abc":       "abc",
		"1:2":       "1:2",
		"1:x:3":     "1:x:3",
		"35:36:-1":  "z.10.-1",
		" 10:0:1 ": "a.0.1",
	}
	for in, want := range cases {
		if got := CompactRID(in); got != want {
			t.Fatalf("CompactRID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "a\x00b\tc\u200bd\x7f"
	if got := Sanitize(in); got != "ab\tcd" {
		t.Fatalf("Sanitize = %q", got)
	}
	if got := SanitizeLimit("привет", 3); got != "при" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if got := SanitizeLimit("x", 0); got != "" {
		t.Fatalf("SanitizeLimit zero = %q", got)
	}
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(1, 3)
	var allowed int
	for i := 0; i < 9; i++ {
		if s.Allow() {
			allowed++
		}
	}
	if allowed != 3 {
		t.Fatalf("allowed = %d, want 3", allowed)
	}
	s.Set(0, 0)
	if !s.Allow() {
		t.Fatal("disabled sampler must allow everything")
	}
}
