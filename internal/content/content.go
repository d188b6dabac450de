// Package content defines the catalogue records managed by the bot and the
// storage boundary they live behind.
package content

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a keyed record does not exist.
	ErrNotFound = errors.New("content: not found")
	// ErrExists is returned when adding a record whose key is already taken.
	ErrExists = errors.New("content: already exists")
)

// TextKey identifies an editable text block.
type TextKey string

// Editable text blocks.
const (
	TextWelcome        TextKey = "welcome"
	TextRouterSettings TextKey = "router_settings"
	TextContact        TextKey = "contact"
)

// ImageKey identifies a replaceable menu image.
type ImageKey string

// Menu images.
const (
	ImageWelcome  ImageKey = "welcome"
	ImagePackages ImageKey = "packages"
	ImageFAQ      ImageKey = "faq"
)

// Connection is the access technology a router file is meant for.
type Connection string

// Supported connections.
const (
	ADSL Connection = "adsl"
	FTTH Connection = "ftth"
)

// ParseConnection accepts "adsl" or "ftth" in any case.
func ParseConnection(s string) (Connection, error) {
	switch c := Connection(strings.ToLower(strings.TrimSpace(s))); c {
	case ADSL, FTTH:
		return c, nil
	default:
		return "", fmt.Errorf("content: unknown connection %q", s)
	}
}

// Label renders the connection for menus.
func (c Connection) Label() string { return strings.ToUpper(string(c)) }

// Media tells how a stored file reference must be sent back.
type Media string

// Supported media.
const (
	MediaDocument Media = "document"
	MediaPhoto    Media = "photo"
)

// Text is a keyed text block. Last write wins.
type Text struct {
	Key       TextKey
	Body      string
	UpdatedAt time.Time
}

// Image is a keyed Telegram file reference. Last write wins.
type Image struct {
	Key       ImageKey
	FileRef   string
	UpdatedAt time.Time
}

// RouterFile is a downloadable configuration file for a router model.
type RouterFile struct {
	ID          int64
	Connection  Connection
	Name        string
	FileRef     string
	Description string
	FileName    string
	Media       Media
	CreatedAt   time.Time
}

// Package is a pricing package. Features keep their submission order.
type Package struct {
	ID        int64
	Name      string
	Price     string
	Speed     string
	Features  []string
	CreatedAt time.Time
}

// FAQItem is a question with its answer.
type FAQItem struct {
	ID        int64
	Question  string
	Answer    string
	CreatedAt time.Time
}

// AdminEntry grants admin rights to a Telegram user.
type AdminEntry struct {
	UserID      int64
	DisplayName string
	AddedAt     time.Time
}

// Profile is the Telegram identity recorded on every interaction.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
}

// UserStat is the usage counter of one end user.
type UserStat struct {
	UserID     int64
	Profile    Profile
	UsageCount int64
	FirstSeen  time.Time
	LastSeen   time.Time
}

// Stats aggregates catalogue and usage counters for the admin statistics view.
type Stats struct {
	Users     int
	Usage     int64
	ADSLFiles int
	FTTHFiles int
	Packages  int
	FAQ       int
	Admins    int
	Images    int
	Texts     int
}

// Files is the total number of router files.
func (s Stats) Files() int { return s.ADSLFiles + s.FTTHFiles }

// AvgUsage is the mean interaction count per user, rounded to one decimal.
func (s Stats) AvgUsage() float64 {
	if s.Users == 0 {
		return 0
	}
	avg := float64(s.Usage) / float64(s.Users)
	return float64(int64(avg*10+0.5)) / 10
}
