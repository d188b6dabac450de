package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/servicebot/core/telegram/state"
	"github.com/m3rciful/servicebot/internal/access"
	"github.com/m3rciful/servicebot/internal/action"
	"github.com/m3rciful/servicebot/internal/content"
	"github.com/m3rciful/servicebot/internal/storage/storagetest"
)

type fakeNotifier struct {
	mu     sync.Mutex
	sent   map[int64][]string
	failed map[int64]bool
}

func (n *fakeNotifier) Notify(_ context.Context, userID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failed[userID] {
		return errors.New("telegram: Forbidden: bot was blocked by the user (403)")
	}
	if n.sent == nil {
		n.sent = map[int64][]string{}
	}
	n.sent[userID] = append(n.sent[userID], text)
	return nil
}

func (n *fakeNotifier) announcements() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	var count int
	for _, msgs := range n.sent {
		for _, m := range msgs {
			if strings.HasPrefix(m, announcementPrefix) {
				count++
			}
		}
	}
	return count
}

type fakeIdentity string

func (f fakeIdentity) Username() string { return string(f) }

// brokenStore fails every text and package write.
type brokenStore struct {
	content.Store
	err error
}

func (b brokenStore) PutText(context.Context, content.TextKey, string) error { return b.err }

func (b brokenStore) AddPackage(context.Context, content.Package) (int64, error) { return 0, b.err }

type fixture struct {
	t        *testing.T
	ctx      context.Context
	store    content.Store
	gate     *access.Gate
	sessions Sessions
	notifier *fakeNotifier
	router   *Router
}

func newFixture(t *testing.T, admins ...int64) *fixture {
	return newFixtureWith(t, nil, admins...)
}

func newFixtureWith(t *testing.T, wrap func(content.Store) content.Store, admins ...int64) *fixture {
	t.Helper()
	ctx := context.Background()
	var store content.Store = storagetest.Open(t)
	for _, id := range admins {
		require.NoError(t, store.AddAdmin(ctx, content.AdminEntry{UserID: id}))
	}
	if wrap != nil {
		store = wrap(store)
	}
	gate := access.New(store, access.Options{})
	require.NoError(t, gate.Reload(ctx))

	f := &fixture{
		t:        t,
		ctx:      ctx,
		store:    store,
		gate:     gate,
		sessions: state.NewMemoryManager[Prompt, RouterFileDraft](),
		notifier: &fakeNotifier{},
	}
	f.router = New(Deps{
		Store:    store,
		Gate:     gate,
		Sessions: f.sessions,
		Notifier: f.notifier,
		Identity: fakeIdentity("service_bot"),
	})
	return f
}

func (f *fixture) press(userID int64, token string) Response {
	return f.router.Handle(f.ctx, Event{Kind: EventButton, User: User{ID: userID}, Token: token})
}

func (f *fixture) say(userID int64, text string) Response {
	return f.router.Handle(f.ctx, Event{Kind: EventText, User: User{ID: userID}, Text: text})
}

func (f *fixture) usage(userID int64) int64 {
	users, err := f.store.ListUsers(f.ctx, 0)
	require.NoError(f.t, err)
	for _, u := range users {
		if u.UserID == userID {
			return u.UsageCount
		}
	}
	return 0
}

func TestMaintenanceBlocksNonAdmins(t *testing.T) {
	f := newFixture(t, 1)
	require.NoError(t, f.gate.SetMaintenance(f.ctx, true))
	f.sessions.Begin(5, PromptFAQ)

	for _, ev := range []Event{
		{Kind: EventButton, User: User{ID: 5}, Token: string(action.MainMenu)},
		{Kind: EventText, User: User{ID: 5}, Text: "hello"},
		{Kind: EventCommand, User: User{ID: 5}, Command: "start"},
		{Kind: EventPhoto, User: User{ID: 5}, FileRef: "photo-1"},
	} {
		resp := f.router.Handle(f.ctx, ev)
		assert.Equal(t, OutcomeBlocked, resp.Outcome, ev.Kind.String())
		require.Len(t, resp.Views, 1)
		assert.Equal(t, textMaintenance, resp.Views[0].Text)
	}

	assert.Zero(t, f.usage(5), "blocked users are not counted")
	assert.Equal(t, PromptFAQ, f.sessions.Get(5).Prompt, "session untouched")

	resp := f.press(1, string(action.AdminMain))
	assert.Equal(t, OutcomeOK, resp.Outcome, "admins pass the gate")

	resp = f.press(1, string(action.DisableMaintenance))
	assert.Equal(t, OutcomeOK, resp.Outcome)
	resp = f.press(5, string(action.MainMenu))
	assert.Equal(t, OutcomeOK, resp.Outcome)
}

func TestLastAdminCannotBeRemoved(t *testing.T) {
	f := newFixture(t, 1)

	for _, token := range []string{
		string(action.RemoveAdmin),
		action.SelectDelete(action.KindAdmin, 1).Token(),
		action.ConfirmDelete(action.KindAdmin, 1).Token(),
	} {
		resp := f.press(1, token)
		assert.Equal(t, OutcomeDenied, resp.Outcome, token)
		require.Len(t, resp.Views, 1)
		assert.Contains(t, resp.Views[0].Text, textLastAdmin)
	}
	assert.True(t, f.gate.IsAdmin(1))
	assert.Equal(t, 1, f.gate.AdminCount())
}

func TestAdminRemovalReloadsGate(t *testing.T) {
	f := newFixture(t, 1, 2)

	resp := f.press(1, string(action.RemoveAdmin))
	require.Len(t, resp.Views, 1)
	var tokens []string
	for _, r := range resp.Views[0].Rows {
		for _, b := range r {
			tokens = append(tokens, b.Token)
		}
	}
	assert.Contains(t, tokens, action.SelectDelete(action.KindAdmin, 2).Token())
	assert.NotContains(t, tokens, action.SelectDelete(action.KindAdmin, 1).Token(), "own id is hidden")

	resp = f.press(1, action.SelectDelete(action.KindAdmin, 2).Token())
	require.Len(t, resp.Views, 1)
	require.Len(t, resp.Views[0].Rows, 1)
	assert.Len(t, resp.Views[0].Rows[0], 2, "confirm and cancel only")

	resp = f.press(1, action.ConfirmDelete(action.KindAdmin, 2).Token())
	assert.Equal(t, OutcomeOK, resp.Outcome)
	assert.False(t, f.gate.IsAdmin(2))
	assert.Equal(t, 1, f.gate.AdminCount())

	resp = f.press(2, string(action.AdminMain))
	assert.Equal(t, OutcomeDenied, resp.Outcome)
}

func TestConfirmReplayIsNotFound(t *testing.T) {
	f := newFixture(t, 1)
	id, err := f.store.AddPackage(f.ctx, content.Package{Name: "Basic", Price: "$10", Speed: "10 Mbps"})
	require.NoError(t, err)

	confirm := action.ConfirmDelete(action.KindPackage, id).Token()
	resp := f.press(1, confirm)
	assert.Equal(t, OutcomeOK, resp.Outcome)
	assert.True(t, resp.Replace)

	resp = f.press(1, confirm)
	assert.Equal(t, OutcomeNotFound, resp.Outcome)
	require.Len(t, resp.Views, 1)
	assert.Contains(t, resp.Views[0].Text, textNotFound)

	resp = f.press(1, action.SelectDelete(action.KindPackage, id).Token())
	assert.Equal(t, OutcomeNotFound, resp.Outcome)
}

func TestCancelDeleteRelists(t *testing.T) {
	f := newFixture(t, 1)
	_, err := f.store.AddFAQ(f.ctx, content.FAQItem{Question: "Q?", Answer: "A."})
	require.NoError(t, err)

	resp := f.press(1, action.CancelDelete(action.KindFAQ).Token())
	assert.Equal(t, OutcomeCancelled, resp.Outcome)
	require.Len(t, resp.Views, 1)
	assert.Len(t, resp.Views[0].Rows, 2, "one item plus back")

	items, err := f.store.ListFAQ(f.ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSessionsArePerUser(t *testing.T) {
	f := newFixture(t, 1, 2)

	f.press(1, string(action.AddFAQ))
	resp := f.say(2, "Question?\nAnswer.")
	assert.Equal(t, OutcomeIgnored, resp.Outcome)
	assert.Empty(t, resp.Views)

	assert.Equal(t, PromptFAQ, f.sessions.Get(1).Prompt)
	assert.True(t, f.sessions.Get(2).Idle())

	resp = f.say(1, "How fast?\nVery.\nReally.")
	assert.Equal(t, OutcomeOK, resp.Outcome)
	items, err := f.store.ListFAQ(f.ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Very.\nReally.", items[0].Answer)
	assert.True(t, f.sessions.Get(1).Idle())
}

func TestPackageFeaturesKeepOrder(t *testing.T) {
	f := newFixture(t, 1)

	f.press(1, string(action.AddPackage))
	resp := f.say(1, "Fiber 100\n$30\n100 Mbps\nTV, Phone , ,Router")
	assert.Equal(t, OutcomeOK, resp.Outcome)

	pkgs, err := f.store.ListPackages(f.ctx)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, []string{"TV", "Phone", "Router"}, pkgs[0].Features)

	f.press(1, string(action.AddPackage))
	resp = f.say(1, "Only\nthree\nlines")
	assert.Equal(t, OutcomeInvalid, resp.Outcome)
	var verr *ValidationError
	require.ErrorAs(t, resp.Err, &verr)
	assert.Equal(t, "validation_failed", verr.Code())
	assert.Equal(t, PromptPackage, f.sessions.Get(1).Prompt, "prompt kept")
}

func TestRouterFileTwoPhaseUpload(t *testing.T) {
	f := newFixture(t, 1)

	f.press(1, string(action.AddRouterFile))
	resp := f.say(1, "vdsl\nZTE\nDesc")
	assert.Equal(t, OutcomeInvalid, resp.Outcome)
	assert.Equal(t, PromptRouterFileDetails, f.sessions.Get(1).Prompt)

	resp = f.say(1, "FTTH\nZTE F660\nLine one\nLine two")
	assert.Equal(t, OutcomeOK, resp.Outcome)
	sess := f.sessions.Get(1)
	assert.Equal(t, PromptRouterFileUpload, sess.Prompt)
	require.NotNil(t, sess.Draft)
	assert.Equal(t, content.FTTH, sess.Draft.Connection)

	resp = f.say(1, "not a file")
	assert.Equal(t, OutcomeInvalid, resp.Outcome)
	assert.Equal(t, PromptRouterFileUpload, f.sessions.Get(1).Prompt, "draft survives bad input")

	resp = f.router.Handle(f.ctx, Event{Kind: EventPhoto, User: User{ID: 1}, FileRef: "photo-42"})
	assert.Equal(t, OutcomeOK, resp.Outcome)
	assert.True(t, f.sessions.Get(1).Idle())

	files, err := f.store.ListRouterFiles(f.ctx, content.FTTH)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "ZTE F660", files[0].Name)
	assert.Equal(t, "Line one\nLine two", files[0].Description)
	assert.Equal(t, "photo-42", files[0].FileRef)
	assert.Equal(t, content.MediaPhoto, files[0].Media)
}

func TestNonAdminAdminButton(t *testing.T) {
	f := newFixture(t, 1)

	resp := f.press(5, string(action.AdminMain))
	assert.Equal(t, OutcomeDenied, resp.Outcome)
	assert.Equal(t, textDenied, resp.Alert)
	assert.Empty(t, resp.Views)
	assert.EqualValues(t, 1, f.usage(5), "usage still counted")

	resp = f.press(5, action.SelectDelete(action.KindFAQ, 1).Token())
	assert.Equal(t, OutcomeDenied, resp.Outcome)

	resp = f.router.Handle(f.ctx, Event{Kind: EventCommand, User: User{ID: 5}, Command: "broadcast", Text: "hi"})
	assert.Equal(t, OutcomeDenied, resp.Outcome)
	assert.Zero(t, f.notifier.announcements())
}

func TestBroadcastCountsFailures(t *testing.T) {
	f := newFixture(t, 1)
	for _, id := range []int64{2, 3} {
		f.press(id, string(action.MainMenu))
	}
	f.notifier.failed = map[int64]bool{2: true}

	resp := f.router.Handle(f.ctx, Event{Kind: EventCommand, User: User{ID: 1}, Command: "broadcast", Text: "Scheduled works tonight"})
	assert.Equal(t, OutcomeOK, resp.Outcome)
	require.Len(t, resp.Views, 1)
	report := resp.Views[0].Text
	assert.Contains(t, report, "Delivered: 2")
	assert.Contains(t, report, "Failed: 1")
	assert.Contains(t, report, "Total: 3")
	assert.Equal(t, 2, f.notifier.announcements())
}

func TestBroadcastPrompt(t *testing.T) {
	f := newFixture(t, 1)

	f.press(1, string(action.SendBroadcast))
	assert.Equal(t, PromptBroadcast, f.sessions.Get(1).Prompt)
	resp := f.say(1, "Hello all")
	assert.Equal(t, OutcomeOK, resp.Outcome)
	assert.True(t, f.sessions.Get(1).Idle())
	assert.Equal(t, 1, f.notifier.announcements(), "the admin is a known user too")

	resp = f.router.Handle(f.ctx, Event{Kind: EventCommand, User: User{ID: 1}, Command: "broadcast"})
	assert.Equal(t, OutcomeInvalid, resp.Outcome)
}

func TestMalformedAndUnknownTokens(t *testing.T) {
	f := newFixture(t, 1)

	resp := f.press(1, "delete_file_abc")
	assert.Equal(t, OutcomeInvalid, resp.Outcome)
	assert.ErrorIs(t, resp.Err, action.ErrMalformedToken)
	assert.Empty(t, resp.Views)

	f.press(1, string(action.AddFAQ))
	resp = f.press(1, "no_such_button")
	assert.Equal(t, OutcomeUnsupported, resp.Outcome)
	require.Len(t, resp.Views, 1)
	assert.Equal(t, PromptFAQ, f.sessions.Get(1).Prompt, "unknown tokens change nothing")
}

func TestNavigationCancelsPrompt(t *testing.T) {
	f := newFixture(t, 1)

	f.press(1, string(action.EditWelcomeText))
	assert.Equal(t, PromptWelcomeText, f.sessions.Get(1).Prompt)
	resp := f.press(1, string(action.CancelInput))
	assert.Equal(t, OutcomeCancelled, resp.Outcome)
	assert.True(t, f.sessions.Get(1).Idle())

	f.press(1, string(action.EditContactText))
	f.press(1, string(action.AdminTexts))
	assert.True(t, f.sessions.Get(1).Idle())
}

func TestTextUpdate(t *testing.T) {
	f := newFixture(t, 1)

	f.press(1, string(action.EditContactText))
	resp := f.say(1, "   ")
	assert.Equal(t, OutcomeInvalid, resp.Outcome)

	resp = f.say(1, "  Call 123  ")
	assert.Equal(t, OutcomeOK, resp.Outcome)
	txt, err := f.store.GetText(f.ctx, content.TextContact)
	require.NoError(t, err)
	assert.Equal(t, "Call 123", txt.Body)
}

func TestStoreFailureKeepsPrompt(t *testing.T) {
	boom := errors.New("database is locked")
	f := newFixtureWith(t, func(s content.Store) content.Store { return brokenStore{Store: s, err: boom} }, 1)

	f.press(1, string(action.EditWelcomeText))
	resp := f.say(1, "Welcome!")
	assert.Equal(t, OutcomeFail, resp.Outcome)
	assert.ErrorIs(t, resp.Err, boom)
	require.Len(t, resp.Views, 1)
	assert.Equal(t, textStoreFailure, resp.Views[0].Text)
	assert.Equal(t, PromptWelcomeText, f.sessions.Get(1).Prompt)
}

func TestAddAdmin(t *testing.T) {
	f := newFixture(t, 1)

	f.press(1, string(action.AddAdmin))
	for _, in := range []string{"abc", "-4", "1"} {
		resp := f.say(1, in)
		assert.Equal(t, OutcomeInvalid, resp.Outcome, in)
		assert.Equal(t, PromptAdminID, f.sessions.Get(1).Prompt, in)
	}

	resp := f.say(1, "77")
	assert.Equal(t, OutcomeOK, resp.Outcome)
	assert.True(t, f.gate.IsAdmin(77))
	assert.True(t, f.sessions.Get(1).Idle())
}

func TestNonAdminMidPromptIsCleared(t *testing.T) {
	f := newFixture(t, 1)
	f.sessions.Begin(5, PromptWelcomeText)

	resp := f.say(5, "hijack")
	assert.Equal(t, OutcomeDenied, resp.Outcome)
	assert.True(t, f.sessions.Get(5).Idle())
	_, err := f.store.GetText(f.ctx, content.TextWelcome)
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestLocksReleased(t *testing.T) {
	f := newFixture(t, 1)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.press(int64(i%4+1), string(action.MainMenu))
		}()
	}
	wg.Wait()
	assert.Zero(t, f.router.locks.size())
	assert.EqualValues(t, 5, f.usage(1))
}
