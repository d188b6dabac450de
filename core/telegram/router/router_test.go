package router

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type codedErr struct{}

func (codedErr) Error() string { return "boom" }
func (codedErr) Code() string  { return "store unavailable" }

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }

func TestActionFamily(t *testing.T) {
	cases := map[string]string{
		"confirm_delete_file_12": "confirm_delete_file",
		"delete_admin_99":        "delete_admin",
		"cancel_delete_faq":      "cancel_delete_faq",
		"main_menu":              "main_menu",
		"42":                     "42",
		"":                       "",
	}
	for in, want := range cases {
		if got := actionFamily(in); got != want {
			t.Errorf("actionFamily(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestNormalizeHandlerName(t *testing.T) {
	if got := normalizeHandlerName(" /Start "); got != "start" {
		t.Fatalf("got %q", got)
	}
	if got := normalizeHandlerName(""); got != "unknown" {
		t.Fatalf("got %q", got)
	}
}

func TestDeriveErrorCode(t *testing.T) {
	if got := deriveErrorCode(codedErr{}); got != "STORE_UNAVAILABLE" {
		t.Fatalf("coded: %q", got)
	}
	if got := deriveErrorCode(&plainErr{}); got != "PLAINERR" {
		t.Fatalf("pointer: %q", got)
	}
	if got := deriveErrorCode(errors.New("x")); got != "ERRORSTRING" {
		t.Fatalf("errors.New: %q", got)
	}
}

func TestMessageRoutesSkipsNil(t *testing.T) {
	routes := MessageRoutes(MessageHandlers{Text: func(tele.Context) error { return nil }})
	if len(routes) != 1 || routes[0].Endpoint != tele.OnText {
		t.Fatalf("unexpected routes: %+v", routes)
	}
}
