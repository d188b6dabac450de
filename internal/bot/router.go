package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/m3rciful/servicebot/core/logger"
	"github.com/m3rciful/servicebot/core/telegram/state"
	"github.com/m3rciful/servicebot/internal/action"
	"github.com/m3rciful/servicebot/internal/content"
)

// Gate is the authorization and maintenance state the router consults.
type Gate interface {
	IsAdmin(userID int64) bool
	AdminCount() int
	IsBlocked(userID int64) bool
	Maintenance() bool
	SetMaintenance(ctx context.Context, on bool) error
	Reload(ctx context.Context) error
}

// Metrics receives router counters. A nil Metrics records nothing.
type Metrics interface {
	ObserveEvent(kind, outcome string)
	ObserveAction(name, outcome string)
	ObserveDenied(gate string)
	ObserveBroadcast(succeeded, failed int)
}

// Sessions is the per-user conversation store used by the router.
type Sessions = state.Manager[Prompt, RouterFileDraft]

// BroadcastOptions tunes mass notification.
type BroadcastOptions struct {
	Workers  int
	Interval time.Duration
}

// Deps are the collaborators of a Router.
type Deps struct {
	Store    content.Store
	Gate     Gate
	Sessions Sessions
	Notifier Notifier
	Identity Identity
	Metrics  Metrics

	Broadcast BroadcastOptions
}

// Router handles events one user at a time.
type Router struct {
	store     content.Store
	gate      Gate
	sessions  Sessions
	notifier  Notifier
	identity  Identity
	metrics   Metrics
	broadcast BroadcastOptions
	locks     *userLocks
}

// New builds a Router. Sessions default to an in-memory manager.
func New(d Deps) *Router {
	sessions := d.Sessions
	if sessions == nil {
		sessions = state.NewMemoryManager[Prompt, RouterFileDraft]()
	}
	bc := d.Broadcast
	if bc.Workers <= 0 {
		bc.Workers = 1
	}
	return &Router{
		store:     d.Store,
		gate:      d.Gate,
		sessions:  sessions,
		notifier:  d.Notifier,
		identity:  d.Identity,
		metrics:   d.Metrics,
		broadcast: bc,
		locks:     newUserLocks(),
	}
}

// Session returns a copy of the user's conversation state.
func (r *Router) Session(userID int64) state.Session[Prompt, RouterFileDraft] {
	return r.sessions.Get(userID)
}

// Handle processes one event. The maintenance gate is evaluated first; a blocked user
// gets the notice only, with no usage update and no session access.
func (r *Router) Handle(ctx context.Context, ev Event) Response {
	unlock := r.locks.lock(ev.User.ID)
	defer unlock()

	var resp Response
	if r.gate.IsBlocked(ev.User.ID) {
		r.observeDenied("maintenance")
		resp = Response{Views: []View{maintenanceNotice()}, Alert: textMaintenanceShort, Outcome: OutcomeBlocked}
	} else {
		if err := r.store.BumpUsage(ctx, ev.User.ID, ev.User.Profile()); err != nil {
			logger.Warn(ctx, logger.CompRouter, "usage.bump",
				slog.String("status", "fail"),
				logger.Err(err),
			)
		}
		switch ev.Kind {
		case EventButton:
			resp = r.handleButton(ctx, ev)
		case EventCommand:
			resp = r.handleCommand(ctx, ev)
		case EventText, EventDocument, EventPhoto:
			resp = r.handleInput(ctx, ev)
		default:
			resp = Response{Outcome: OutcomeIgnored}
		}
	}

	if resp.Outcome == "" {
		resp.Outcome = OutcomeOK
		if resp.Err != nil {
			resp.Outcome = OutcomeFail
		}
	}
	if r.metrics != nil {
		r.metrics.ObserveEvent(ev.Kind.String(), resp.Outcome)
	}
	return resp
}

func (r *Router) handleButton(ctx context.Context, ev Event) Response {
	act, err := action.Parse(ev.Token)
	if err != nil {
		logger.Warn(ctx, logger.CompRouter, "action.parse",
			slog.String("status", "invalid"),
			slog.String("action", logger.SanitizeLimit(ev.Token, 64)),
			logger.Err(err),
		)
		if errors.Is(err, action.ErrMalformedToken) {
			r.observeAction("malformed", OutcomeInvalid)
			return Response{Alert: textMalformedAction, Outcome: OutcomeInvalid, Err: err}
		}
		r.observeAction("unknown", OutcomeUnsupported)
		return Response{Views: []View{unsupportedView()}, Alert: textUnsupported, Outcome: OutcomeUnsupported}
	}

	if act.AdminOnly() && !r.gate.IsAdmin(ev.User.ID) {
		r.observeDenied("admin")
		r.observeAction(actionLabel(act), OutcomeDenied)
		logger.Warn(ctx, logger.CompRouter, "action.denied",
			slog.String("status", "denied"),
			slog.String("action", act.Token()),
		)
		return Response{Alert: textDenied, Outcome: OutcomeDenied}
	}

	// Navigation abandons any pending prompt; prompt-opening actions set a fresh one.
	r.sessions.Clear(ev.User.ID)

	var resp Response
	switch a := act.(type) {
	case action.Static:
		resp = r.runStatic(ctx, ev.User, a.Name)
	case action.Delete:
		resp = r.runDelete(ctx, ev.User, a)
	}
	resp.Replace = resp.Err == nil && len(resp.Views) > 0
	r.observeAction(actionLabel(act), resp.Outcome)
	logger.Debug(ctx, logger.CompRouter, "action.done",
		slog.String("action", act.Token()),
		slog.String("outcome", outcomeOr(resp)),
	)
	return resp
}

func (r *Router) handleCommand(ctx context.Context, ev Event) Response {
	r.sessions.Clear(ev.User.ID)
	u := ev.User
	switch ev.Command {
	case "start":
		return r.single(r.mainMenu(ctx, u, ""))
	case "settings":
		return r.single(r.routerSettingsMenu(ctx))
	case "prices":
		return r.prices(ctx)
	case "faq":
		return r.faq(ctx)
	case "contact":
		return r.single(r.contactView(ctx))
	case "share":
		return r.single(r.shareView())
	case "myid":
		return r.single(myIDView(u.ID, r.gate.IsAdmin(u.ID)))
	case "admin":
		if !r.gate.IsAdmin(u.ID) {
			r.observeDenied("admin")
			return Response{Views: []View{plain(textDeniedCommand)}, Outcome: OutcomeDenied}
		}
		return r.single(adminPanel(""))
	case "maintenance":
		if !r.gate.IsAdmin(u.ID) {
			r.observeDenied("admin")
			return Response{Views: []View{plain(textDeniedCommand)}, Outcome: OutcomeDenied}
		}
		return r.maintenanceCommand(ctx, ev.Text)
	case "broadcast":
		if !r.gate.IsAdmin(u.ID) {
			r.observeDenied("admin")
			return Response{Views: []View{plain(textDeniedCommand)}, Outcome: OutcomeDenied}
		}
		if ev.Text == "" {
			return Response{Views: []View{md(textBroadcastUsage)}, Outcome: OutcomeInvalid}
		}
		return r.runBroadcast(ctx, u, ev.Text)
	default:
		return Response{Views: []View{unsupportedView()}, Outcome: OutcomeUnsupported}
	}
}

func (r *Router) single(v View) Response { return Response{Views: []View{v}} }

// failure reports a store error without touching the session.
func (r *Router) failure(ctx context.Context, op string, err error) Response {
	logger.Error(ctx, logger.CompRouter, "router.store",
		slog.String("status", "fail"),
		slog.String("op", op),
		logger.Err(err),
	)
	return Response{Views: []View{plain(textStoreFailure)}, Outcome: OutcomeFail, Err: err}
}

func (r *Router) observeAction(name, outcome string) {
	if r.metrics != nil {
		if outcome == "" {
			outcome = OutcomeOK
		}
		r.metrics.ObserveAction(name, outcome)
	}
}

func (r *Router) observeDenied(gate string) {
	if r.metrics != nil {
		r.metrics.ObserveDenied(gate)
	}
}

// actionLabel keeps metric labels bounded: delete steps are reported without ids.
func actionLabel(a action.Action) string {
	if d, ok := a.(action.Delete); ok {
		return d.Verb.String() + "_delete_" + string(d.Kind)
	}
	return a.Token()
}

func outcomeOr(resp Response) string {
	if resp.Outcome != "" {
		return resp.Outcome
	}
	if resp.Err != nil {
		return OutcomeFail
	}
	return OutcomeOK
}
