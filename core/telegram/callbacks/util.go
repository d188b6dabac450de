package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseCallbackData splits telebot's "\f<unique>|<payload>" encoding.
// Data without the \f marker is returned whole as the unique part.
func ParseCallbackData(data string) (string, string) {
	raw := strings.TrimPrefix(data, "\f")
	unique, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(unique), payload
}

// Key returns the callback unique, preferring the value telebot already extracted.
func Key(cb *tele.Callback) string {
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Unique
	}
	k, _ := ParseCallbackData(cb.Data)
	return k
}
