// Package bot is the interaction router: it evaluates the access gates, drives the
// per-user conversation state, dispatches button actions and renders the resulting views.
// It is transport independent; internal/tgbot adapts it to Telegram.
package bot

import (
	"context"

	"github.com/m3rciful/servicebot/internal/content"
)

// EventKind tells which inbound interaction an Event carries.
type EventKind int

// Inbound interactions.
const (
	EventButton EventKind = iota + 1
	EventText
	EventDocument
	EventPhoto
	EventCommand
)

func (k EventKind) String() string {
	switch k {
	case EventButton:
		return "button"
	case EventText:
		return "text"
	case EventDocument:
		return "document"
	case EventPhoto:
		return "photo"
	case EventCommand:
		return "command"
	default:
		return "unknown"
	}
}

// User identifies the sender of an event.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// Profile converts the sender into the usage-stat profile.
func (u User) Profile() content.Profile {
	return content.Profile{Username: u.Username, FirstName: u.FirstName, LastName: u.LastName}
}

// Event is one inbound interaction.
type Event struct {
	Kind EventKind
	User User

	// Token is the callback token of a button press.
	Token string
	// Text is the message body, or the arguments of a command.
	Text string
	// Command is the command name without the leading slash.
	Command string
	// FileRef and FileName describe an uploaded document or photo.
	FileRef  string
	FileName string
}

// Button is a rendered inline button. Exactly one of Token and URL is set.
type Button struct {
	Text  string
	Token string
	URL   string
}

// View is one outbound message. Photo or Document turn Text into the caption.
type View struct {
	Text     string
	Markdown bool
	Rows     [][]Button
	Photo    string
	Document string
	FileName string
	// Fallback is sent as text when the media cannot be delivered.
	Fallback string
}

// Response is what the router asks the transport to do for an event.
type Response struct {
	Views []View
	// Alert is shown as a transient popup for button presses.
	Alert string
	// Replace lets the transport edit the pressed message instead of sending a new one.
	Replace bool
	Outcome string
	Err     error
}

// Notifier sends a plain text message to any user.
type Notifier interface {
	Notify(ctx context.Context, userID int64, text string) error
}

// Identity exposes the bot's public handle.
type Identity interface {
	Username() string
}

// Outcomes reported in Response.Outcome.
const (
	OutcomeOK          = "ok"
	OutcomeFail        = "fail"
	OutcomeDenied      = "denied"
	OutcomeBlocked     = "blocked"
	OutcomeInvalid     = "invalid"
	OutcomeNotFound    = "not_found"
	OutcomeUnsupported = "unsupported"
	OutcomeCancelled   = "cancelled"
	OutcomeIgnored     = "ignored"
)
