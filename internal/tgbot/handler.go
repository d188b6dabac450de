// Package tgbot connects the interaction router to Telegram.
package tgbot

import (
	"context"
	"errors"
	"strings"
	"sync"

	tg "github.com/m3rciful/servicebot/core/telegram"
	"github.com/m3rciful/servicebot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/servicebot/core/telegram/helpers"
	"github.com/m3rciful/servicebot/core/telegram/middleware"
	tgrouter "github.com/m3rciful/servicebot/core/telegram/router"
	"github.com/m3rciful/servicebot/internal/bot"

	tele "gopkg.in/telebot.v4"
)

var errNotAttached = errors.New("tgbot: bot is not running")

// SentMetrics counts outbound messages per update.
type SentMetrics interface {
	ObserveSent(messages int, keyboard bool)
}

// Handler turns telebot updates into router events and renders the responses.
// It also implements bot.Notifier and bot.Identity once a bot is attached.
type Handler struct {
	router  *bot.Router
	metrics SentMetrics

	mu sync.RWMutex
	tb *tele.Bot
}

// New returns a Handler for router. metrics may be nil.
func New(router *bot.Router, metrics SentMetrics) *Handler {
	return &Handler{router: router, metrics: metrics}
}

// SetRouter replaces the router; the router and the handler refer to each other.
func (h *Handler) SetRouter(router *bot.Router) { h.router = router }

// Attach binds the running bot used for notifications and the share link.
func (h *Handler) Attach(b *tele.Bot) {
	h.mu.Lock()
	h.tb = b
	h.mu.Unlock()
}

func (h *Handler) bot() *tele.Bot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tb
}

// Notify sends a plain message to userID.
func (h *Handler) Notify(ctx context.Context, userID int64, text string) error {
	b := h.bot()
	if b == nil {
		return errNotAttached
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.Send(tele.ChatID(userID), text)
	return err
}

// Username returns the bot's username, empty before Attach.
func (h *Handler) Username() string {
	b := h.bot()
	if b == nil || b.Me == nil {
		return ""
	}
	return b.Me.Username
}

// Routes returns the callback and message routes. Command routes come from the registry.
func (h *Handler) Routes(reg *tg.Registry) []tg.Route {
	routes := tgrouter.CommandRoutes(reg)
	routes = append(routes, tgrouter.CallbackRoute(h.onCallback))
	routes = append(routes, tgrouter.MessageRoutes(tgrouter.MessageHandlers{
		Text:     h.onText,
		Document: h.onDocument,
		Photo:    h.onPhoto,
	})...)
	return routes
}

func (h *Handler) onCallback(c tele.Context) error {
	return h.serve(c, bot.Event{Kind: bot.EventButton, Token: callbacks.Key(c.Callback())})
}

func (h *Handler) onText(c tele.Context) error {
	return h.serve(c, bot.Event{Kind: bot.EventText, Text: c.Text()})
}

func (h *Handler) onDocument(c tele.Context) error {
	doc := c.Message().Document
	if doc == nil {
		return nil
	}
	return h.serve(c, bot.Event{Kind: bot.EventDocument, FileRef: doc.FileID, FileName: doc.FileName})
}

func (h *Handler) onPhoto(c tele.Context) error {
	photo := c.Message().Photo
	if photo == nil {
		return nil
	}
	return h.serve(c, bot.Event{Kind: bot.EventPhoto, FileRef: photo.FileID})
}

func (h *Handler) command(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		var args string
		if msg := c.Message(); msg != nil {
			args = strings.TrimSpace(msg.Payload)
		}
		return h.serve(c, bot.Event{Kind: bot.EventCommand, Command: name, Text: args})
	}
}

func (h *Handler) serve(c tele.Context, ev bot.Event) error {
	ev.User = userFrom(c.Sender())
	ctx := tghelpers.BuildContext(c)

	resp := h.router.Handle(ctx, ev)
	tghelpers.SetOutcome(c, resp.Outcome)

	err := render(c, resp)
	if h.metrics != nil {
		h.metrics.ObserveSent(middleware.GetCounters(c))
	}
	if err != nil {
		return err
	}
	if resp.Outcome == bot.OutcomeFail {
		return resp.Err
	}
	return nil
}

func userFrom(u *tele.User) bot.User {
	if u == nil {
		return bot.User{}
	}
	return bot.User{ID: u.ID, Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}
