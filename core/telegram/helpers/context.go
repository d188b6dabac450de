package helpers

import (
	"context"

	"github.com/m3rciful/servicebot/core/logger"

	tele "gopkg.in/telebot.v4"
)

const (
	contextKey = "logger_ctx"
	outcomeKey = "outcome"
)

// StoreContext attaches ctx to the telebot context for downstream helpers.
func StoreContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(contextKey, ctx)
}

// ContextFrom returns the context previously stored by middleware.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(contextKey).(context.Context)
	return ctx, ok
}

// BuildContext returns a context carrying the rid and update identifiers of c.
func BuildContext(c tele.Context) context.Context {
	if cached, ok := ContextFrom(c); ok {
		return cached
	}

	var chatID, userID int64
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	upd := c.Update()

	rid, _ := c.Get("rid").(string)
	if rid == "" {
		rid = logger.BuildRID(upd.ID, chatID, userID)
	}

	ctx := logger.WithRID(context.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component(logger.CompTG))
	StoreContext(c, ctx)
	return ctx
}

// WithHandler records the handler name in the stored context.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	StoreContext(c, ctx)
	return ctx
}

// SetOutcome lets a handler report a domain outcome (denied, invalid, ...) for the summary log line.
func SetOutcome(c tele.Context, outcome string) {
	if c != nil && outcome != "" {
		c.Set(outcomeKey, outcome)
	}
}

// OutcomeFrom returns the outcome set by SetOutcome.
func OutcomeFrom(c tele.Context) string {
	if c == nil {
		return ""
	}
	s, _ := c.Get(outcomeKey).(string)
	return s
}
