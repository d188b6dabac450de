package router

import (
	"log/slog"

	"github.com/m3rciful/servicebot/core/logger"
	tg "github.com/m3rciful/servicebot/core/telegram"
)

// CommandRoutes binds every registered command to its endpoint with a handler summary.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		name := "command." + normalizeHandlerName(cmd)
		h := def.Handler
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  wrap(name, h),
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(routes)),
	)
	return routes
}
