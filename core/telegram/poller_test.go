package telegram

import (
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestBuildPollerLongpollDefaults(t *testing.T) {
	p, ok := BuildPoller(PollerOptions{RunMode: "longpoll"}).(*tele.LongPoller)
	if !ok {
		t.Fatalf("expected long poller")
	}
	if p.Timeout != 10*time.Second {
		t.Fatalf("timeout=%v", p.Timeout)
	}
}

func TestBuildPollerWebhook(t *testing.T) {
	p, ok := BuildPoller(PollerOptions{
		RunMode: " Webhook ",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://bot.example.com/hook"},
	}).(*tele.Webhook)
	if !ok {
		t.Fatalf("expected webhook")
	}
	if p.Listen != "0.0.0.0:8443" || p.Endpoint.PublicURL != "https://bot.example.com/hook" {
		t.Fatalf("unexpected webhook: %+v", p)
	}
}
