package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		in, unique, payload string
	}{
		{"\fadmin_main", "admin_main", ""},
		{"\fdelete_file_12|x", "delete_file_12", "x"},
		{"main_menu", "main_menu", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		u, p := ParseCallbackData(tc.in)
		if u != tc.unique || p != tc.payload {
			t.Fatalf("ParseCallbackData(%q) = %q, %q; want %q, %q", tc.in, u, p, tc.unique, tc.payload)
		}
	}
}

func TestKeyPrefersUnique(t *testing.T) {
	if got := Key(&tele.Callback{Unique: "faq", Data: "ignored"}); got != "faq" {
		t.Fatalf("Key = %q", got)
	}
	if got := Key(&tele.Callback{Data: "\fcontact"}); got != "contact" {
		t.Fatalf("Key = %q", got)
	}
	if got := Key(nil); got != "" {
		t.Fatalf("Key(nil) = %q", got)
	}
}
