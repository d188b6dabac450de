package router

import (
	"log/slog"

	tg "github.com/m3rciful/servicebot/core/telegram"
	"github.com/m3rciful/servicebot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute sends every callback to a single handler. Buttons are created
// with a Unique but never registered individually, so telebot delivers them all
// on OnCallback and the handler decodes the token itself.
func CallbackRoute(handler tele.HandlerFunc) tg.Route {
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler: func(c tele.Context) error {
			if c.Callback() == nil || handler == nil {
				return nil
			}
			key := callbacks.Key(c.Callback())
			name := "callback." + normalizeHandlerName(actionFamily(key))
			return handleWithSummary(c, name, handler, slog.String("cb_key", key))
		},
	}
}

// actionFamily strips a trailing numeric id so handler names stay low-cardinality.
func actionFamily(key string) string {
	end := len(key)
	for end > 0 && key[end-1] >= '0' && key[end-1] <= '9' {
		end--
	}
	if end < len(key) && end > 0 && key[end-1] == '_' {
		return key[:end-1]
	}
	return key
}
