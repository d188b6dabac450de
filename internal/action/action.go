// Package action decodes button callback tokens into a closed set of actions.
package action

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownToken marks a token that matches no static name or parametrized pattern.
	ErrUnknownToken = errors.New("action: unknown token")
	// ErrMalformedToken marks a parametrized token whose id is missing or not an unsigned integer.
	ErrMalformedToken = errors.New("action: malformed token")
)

// ParseError reports why a token could not be decoded.
type ParseError struct {
	Token string
	Err   error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%v: %q", e.Err, e.Token) }

func (e *ParseError) Unwrap() error { return e.Err }

// Action is a decoded button press. The set of implementations is closed.
type Action interface {
	// Token renders the callback token that parses back to the action.
	Token() string
	// AdminOnly reports whether the authorization gate must pass before execution.
	AdminOnly() bool
	sealed()
}

// Name is a static action token.
type Name string

// Static wraps a fixed token.
type Static struct{ Name Name }

// Token implements Action.
func (s Static) Token() string { return string(s.Name) }

// AdminOnly implements Action.
func (s Static) AdminOnly() bool { return !statics[s.Name] }

func (Static) sealed() {}

// Verb is the step of the confirm-before-delete protocol.
type Verb int

// Delete protocol steps.
const (
	Select Verb = iota + 1
	Confirm
	Cancel
)

func (v Verb) String() string {
	switch v {
	case Select:
		return "select"
	case Confirm:
		return "confirm"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Kind is the record kind a delete applies to.
type Kind string

// Deletable kinds.
const (
	KindFile    Kind = "file"
	KindPackage Kind = "package"
	KindFAQ     Kind = "faq"
	KindAdmin   Kind = "admin"
)

var kinds = []Kind{KindFile, KindPackage, KindFAQ, KindAdmin}

// Delete is a step of the delete protocol for one record. ID is unused for Cancel.
type Delete struct {
	Verb Verb
	Kind Kind
	ID   int64
}

// Token implements Action.
func (d Delete) Token() string {
	switch d.Verb {
	case Confirm:
		return fmt.Sprintf("confirm_delete_%s_%d", d.Kind, d.ID)
	case Cancel:
		return "cancel_delete_" + string(d.Kind)
	default:
		return fmt.Sprintf("delete_%s_%d", d.Kind, d.ID)
	}
}

// AdminOnly implements Action. Every delete step requires an admin.
func (Delete) AdminOnly() bool { return true }

func (Delete) sealed() {}

// Parse decodes a callback token: exact static names first, then the delete patterns.
// Errors are *ParseError wrapping ErrUnknownToken or ErrMalformedToken.
func Parse(token string) (Action, error) {
	token = strings.TrimSpace(token)
	if _, ok := statics[Name(token)]; ok {
		return Static{Name: Name(token)}, nil
	}

	if rest, ok := strings.CutPrefix(token, "cancel_delete_"); ok {
		for _, k := range kinds {
			if rest == string(k) {
				return Delete{Verb: Cancel, Kind: k}, nil
			}
		}
		return nil, &ParseError{Token: token, Err: ErrUnknownToken}
	}

	verb := Select
	rest, ok := strings.CutPrefix(token, "confirm_delete_")
	if ok {
		verb = Confirm
	} else if rest, ok = strings.CutPrefix(token, "delete_"); !ok {
		return nil, &ParseError{Token: token, Err: ErrUnknownToken}
	}

	for _, k := range kinds {
		raw, found := strings.CutPrefix(rest, string(k))
		if !found {
			continue
		}
		if raw == "" {
			return nil, &ParseError{Token: token, Err: ErrMalformedToken}
		}
		raw, found = strings.CutPrefix(raw, "_")
		if !found {
			// a longer word sharing the kind prefix, e.g. "faqs"
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 63)
		if err != nil {
			return nil, &ParseError{Token: token, Err: fmt.Errorf("%w: %v", ErrMalformedToken, err)}
		}
		return Delete{Verb: verb, Kind: k, ID: int64(id)}, nil
	}
	return nil, &ParseError{Token: token, Err: ErrUnknownToken}
}

// SelectDelete builds the list-item token for a record.
func SelectDelete(kind Kind, id int64) Delete { return Delete{Verb: Select, Kind: kind, ID: id} }

// ConfirmDelete builds the confirmation token for a record.
func ConfirmDelete(kind Kind, id int64) Delete { return Delete{Verb: Confirm, Kind: kind, ID: id} }

// CancelDelete builds the cancel token for a kind.
func CancelDelete(kind Kind) Delete { return Delete{Verb: Cancel, Kind: kind} }
