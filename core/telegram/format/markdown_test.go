package format

import (
	"testing"
	"time"
)

func TestEscapeMarkdown(t *testing.T) {
	got, err := EscapeMarkdown("a_b*c[d]`e", MarkdownV1)
	if err != nil {
		t.Fatalf("v1: %v", err)
	}
	if want := "a\\_b\\*c\\[d]\\`e"; got != want {
		t.Fatalf("v1 = %q, want %q", got, want)
	}

	got, err = EscapeMarkdown("1.5 (x)!", MarkdownV2)
	if err != nil {
		t.Fatalf("v2: %v", err)
	}
	if want := "1\\.5 \\(x\\)\\!"; got != want {
		t.Fatalf("v2 = %q, want %q", got, want)
	}

	if _, err := EscapeMarkdown("x", 3); err == nil {
		t.Fatal("expected error for unknown version")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Как подключить роутер?", 6, "..."); got != "Как по..." {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("short", 30, "..."); got != "short" {
		t.Fatalf("Truncate = %q", got)
	}
}

func TestStamp(t *testing.T) {
	if got := Stamp(time.Time{}); got != "-" {
		t.Fatalf("Stamp(zero) = %q", got)
	}
	ts := time.Date(2024, 3, 9, 7, 5, 59, 0, time.UTC)
	if got := Stamp(ts); got != "2024-03-09 07:05" {
		t.Fatalf("Stamp = %q", got)
	}
}
