package router

import (
	tg "github.com/m3rciful/servicebot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// MessageHandlers groups handlers for non-command messages. Nil handlers are not routed.
type MessageHandlers struct {
	Text     tele.HandlerFunc
	Document tele.HandlerFunc
	Photo    tele.HandlerFunc
}

// MessageRoutes builds routes for text, document and photo messages.
func MessageRoutes(h MessageHandlers) []tg.Route {
	var routes []tg.Route
	if h.Text != nil {
		routes = append(routes, tg.Route{Endpoint: tele.OnText, Handler: wrap("message.text", h.Text)})
	}
	if h.Document != nil {
		routes = append(routes, tg.Route{Endpoint: tele.OnDocument, Handler: wrap("message.document", h.Document)})
	}
	if h.Photo != nil {
		routes = append(routes, tg.Route{Endpoint: tele.OnPhoto, Handler: wrap("message.photo", h.Photo)})
	}
	return routes
}

func wrap(name string, h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		return handleWithSummary(c, name, h)
	}
}
