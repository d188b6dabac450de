package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/servicebot/core/logger"
	"github.com/m3rciful/servicebot/core/telegram/format"
	"github.com/m3rciful/servicebot/internal/action"
	"github.com/m3rciful/servicebot/internal/content"
)

// deleteList renders one button per record of kind. Admin removal hides the
// requester and is refused outright while only one admin exists.
func (r *Router) deleteList(ctx context.Context, u User, kind action.Kind) Response {
	parent := parentToken(kind)
	var buttons [][]Button
	add := func(label string, id int64) {
		buttons = append(buttons, row(Button{Text: "🗑 " + label, Token: action.SelectDelete(kind, id).Token()}))
	}

	switch kind {
	case action.KindFile:
		files, err := r.store.ListRouterFiles(ctx, "")
		if err != nil {
			return r.failure(ctx, "list_router_files", err)
		}
		for _, f := range files {
			add(fmt.Sprintf("%s (%s)", f.Name, f.Connection.Label()), f.ID)
		}
	case action.KindPackage:
		pkgs, err := r.store.ListPackages(ctx)
		if err != nil {
			return r.failure(ctx, "list_packages", err)
		}
		for _, p := range pkgs {
			add(p.Name, p.ID)
		}
	case action.KindFAQ:
		items, err := r.store.ListFAQ(ctx)
		if err != nil {
			return r.failure(ctx, "list_faq", err)
		}
		for _, it := range items {
			add(format.Truncate(it.Question, 40, "…"), it.ID)
		}
	case action.KindAdmin:
		if r.gate.AdminCount() <= 1 {
			return Response{Views: []View{parentMenu(kind, textLastAdmin)}, Outcome: OutcomeDenied}
		}
		admins, err := r.store.ListAdmins(ctx)
		if err != nil {
			return r.failure(ctx, "list_admins", err)
		}
		for _, a := range admins {
			if a.UserID == u.ID {
				continue
			}
			add(adminLabel(a, false), a.UserID)
		}
	}

	if len(buttons) == 0 {
		return r.single(View{Text: textNothingListed, Rows: [][]Button{back(parent)}})
	}
	buttons = append(buttons, back(parent))
	return r.single(View{Text: "🗑 Choose the item to delete:", Rows: buttons})
}

// runDelete drives the select, confirm and cancel steps. Confirm reloads the record so
// a replayed confirmation ends in not found instead of a second deletion.
func (r *Router) runDelete(ctx context.Context, u User, d action.Delete) Response {
	if d.Verb == action.Cancel {
		resp := r.deleteList(ctx, u, d.Kind)
		if resp.Outcome == "" {
			resp.Outcome = OutcomeCancelled
		}
		return resp
	}

	if d.Kind == action.KindAdmin && r.gate.AdminCount() <= 1 {
		return Response{Views: []View{parentMenu(d.Kind, textLastAdmin)}, Outcome: OutcomeDenied}
	}

	label, err := r.describe(ctx, d.Kind, d.ID)
	if isNotFound(err) {
		return Response{Views: []View{notFoundView(parentToken(d.Kind))}, Outcome: OutcomeNotFound}
	}
	if err != nil {
		return r.failure(ctx, "load_"+string(d.Kind), err)
	}

	if d.Verb == action.Select {
		return r.single(View{
			Text:     "⚠️ *Confirm deletion*\n\n" + label + "\n\nThis cannot be undone.",
			Markdown: true,
			Rows: [][]Button{row(
				Button{Text: "✅ Yes, delete", Token: action.ConfirmDelete(d.Kind, d.ID).Token()},
				Button{Text: "❎ Cancel", Token: action.CancelDelete(d.Kind).Token()},
			)},
		})
	}

	if err := r.remove(ctx, d.Kind, d.ID); err != nil {
		if isNotFound(err) {
			return Response{Views: []View{notFoundView(parentToken(d.Kind))}, Outcome: OutcomeNotFound}
		}
		return r.failure(ctx, "delete_"+string(d.Kind), err)
	}
	logger.Info(ctx, logger.CompContent, "content.delete",
		slog.String("kind", string(d.Kind)),
		slog.Int64("record_id", d.ID),
	)

	if d.Kind == action.KindAdmin {
		if err := r.gate.Reload(ctx); err != nil {
			return r.failure(ctx, "reload_admins", err)
		}
	}
	return r.single(parentMenu(d.Kind, "✅ Deleted: "+label))
}

// describe loads a record and renders a one-line markdown label for it.
func (r *Router) describe(ctx context.Context, kind action.Kind, id int64) (string, error) {
	switch kind {
	case action.KindFile:
		f, err := r.store.GetRouterFile(ctx, id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("📁 %s [%s]", format.MD(f.Name), f.Connection.Label()), nil
	case action.KindPackage:
		p, err := r.store.GetPackage(ctx, id)
		if err != nil {
			return "", err
		}
		return "📦 " + format.MD(p.Name), nil
	case action.KindFAQ:
		it, err := r.store.GetFAQ(ctx, id)
		if err != nil {
			return "", err
		}
		return "❓ " + format.MD(it.Question), nil
	case action.KindAdmin:
		a, err := r.store.GetAdmin(ctx, id)
		if err != nil {
			return "", err
		}
		return "👤 " + adminLabel(a, true), nil
	}
	return "", content.ErrNotFound
}

func (r *Router) remove(ctx context.Context, kind action.Kind, id int64) error {
	switch kind {
	case action.KindFile:
		return r.store.DeleteRouterFile(ctx, id)
	case action.KindPackage:
		return r.store.DeletePackage(ctx, id)
	case action.KindFAQ:
		return r.store.DeleteFAQ(ctx, id)
	case action.KindAdmin:
		return r.store.DeleteAdmin(ctx, id)
	}
	return content.ErrNotFound
}
