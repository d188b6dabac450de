package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MarkdownV1 denotes Telegram markdown version 1.
	MarkdownV1 = 1
	// MarkdownV2 denotes Telegram markdown version 2.
	MarkdownV2 = 2
)

var (
	v1Replacer = strings.NewReplacer(`\`, `\\`, "_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)
	v2Replacer = newV2Replacer()
)

func newV2Replacer() *strings.Replacer {
	const specials = "\\_*[]()~`>#+-=|{}.!"
	pairs := make([]string, 0, len(specials)*2)
	for _, r := range specials {
		pairs = append(pairs, string(r), `\`+string(r))
	}
	return strings.NewReplacer(pairs...)
}

// EscapeMarkdown escapes special characters for Telegram MarkdownV1 or V2.
func EscapeMarkdown(text string, version int) (string, error) {
	switch version {
	case MarkdownV1:
		return v1Replacer.Replace(text), nil
	case MarkdownV2:
		return v2Replacer.Replace(text), nil
	}
	return "", fmt.Errorf("unsupported markdown version: %d", version)
}

// MD escapes user supplied text for MarkdownV1 messages.
func MD(text string) string {
	return v1Replacer.Replace(text)
}

// Truncate shortens s to at most n runes, appending suffix when something was cut.
func Truncate(s string, n int, suffix string) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + suffix
}

// Stamp renders a timestamp with minute precision in UTC; the zero time renders as "-".
func Stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04")
}
