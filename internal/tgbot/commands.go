package tgbot

import (
	tg "github.com/m3rciful/servicebot/core/telegram"
	"github.com/m3rciful/servicebot/core/telegram/commands"
)

// RegisterCommands adds the bot's slash commands to reg.
func (h *Handler) RegisterCommands(reg *tg.Registry) {
	for _, c := range []struct {
		name, desc string
		admin      bool
	}{
		{"start", "Main menu", false},
		{"settings", "Router settings", false},
		{"prices", "Prices and offers", false},
		{"faq", "Frequently asked questions", false},
		{"contact", "Contact us", false},
		{"share", "Share the bot", false},
		{"myid", "Show your Telegram id", false},
		{"admin", "Admin panel", true},
		{"maintenance", "Maintenance mode: on, off or status", true},
		{"broadcast", "Send an announcement to all users", true},
	} {
		reg.RegisterCommand("/"+c.name, commands.Command{
			Handler:     h.command(c.name),
			Description: c.desc,
			AdminOnly:   c.admin,
		})
	}
}
