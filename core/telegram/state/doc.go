// Package state keeps per-user conversation sessions for Telegram bots.
// Sessions are typed by the bot: P is its prompt enum, whose zero value means idle,
// and D is the payload staged between prompts of one flow.
package state
