package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/m3rciful/servicebot/core/logger"
	"github.com/m3rciful/servicebot/internal/content"
)

// handleInput feeds a text, document or photo message to the pending prompt.
// Input without a prompt is ignored. Invalid input keeps the prompt; so does a store
// failure, letting the admin resend the same message.
func (r *Router) handleInput(ctx context.Context, ev Event) Response {
	sess := r.sessions.Get(ev.User.ID)
	if sess.Idle() {
		return Response{Outcome: OutcomeIgnored}
	}
	if !r.gate.IsAdmin(ev.User.ID) {
		r.sessions.Clear(ev.User.ID)
		r.observeDenied("admin")
		return Response{Outcome: OutcomeDenied}
	}

	var resp Response
	var err error
	switch sess.Prompt.Step() {
	case StepSingleLineText:
		resp, err = r.inputText(ctx, ev, sess.Prompt)
	case StepMultilineRecord:
		resp, err = r.inputRecord(ctx, ev, sess.Prompt)
	case StepBinaryUpload:
		resp, err = r.inputUpload(ctx, ev, sess.Prompt, sess.Draft)
	case StepNumericID:
		resp, err = r.inputAdminID(ctx, ev)
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		logger.Debug(ctx, logger.CompRouter, "prompt.invalid",
			slog.String("prompt", verr.Prompt.String()),
			slog.String("reason", verr.Reason),
		)
		return Response{Views: []View{promptView("❌ " + verr.Reason)}, Outcome: OutcomeInvalid, Err: verr}
	}
	if err != nil {
		return r.failure(ctx, "prompt_"+sess.Prompt.String(), err)
	}
	return resp
}

func requireText(ev Event, p Prompt) (string, error) {
	if ev.Kind != EventText {
		return "", invalid(p, "Please send a text message.")
	}
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return "", invalid(p, "The message is empty.")
	}
	return text, nil
}

// lines splits a submission into trimmed lines, dropping blank ones.
func lines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func (r *Router) inputText(ctx context.Context, ev Event, p Prompt) (Response, error) {
	text, err := requireText(ev, p)
	if err != nil {
		return Response{}, err
	}
	if p == PromptBroadcast {
		r.sessions.Clear(ev.User.ID)
		return r.runBroadcast(ctx, ev.User, text), nil
	}
	key := promptTexts[p]
	if err := r.store.PutText(ctx, key, text); err != nil {
		return Response{}, err
	}
	r.sessions.Clear(ev.User.ID)
	logger.Info(ctx, logger.CompContent, "content.text.update", slog.String("kind", string(key)))
	return r.single(adminTexts("✅ The " + strings.ReplaceAll(string(key), "_", " ") + " text was updated.")), nil
}

func (r *Router) inputRecord(ctx context.Context, ev Event, p Prompt) (Response, error) {
	text, err := requireText(ev, p)
	if err != nil {
		return Response{}, err
	}
	ls := lines(text)

	switch p {
	case PromptRouterFileDetails:
		if len(ls) < 3 {
			return Response{}, invalid(p, "Incomplete details. Send three lines: type, name, description.")
		}
		conn, err := content.ParseConnection(ls[0])
		if err != nil {
			return Response{}, invalid(p, "The first line must be adsl or ftth.")
		}
		draft := &RouterFileDraft{Connection: conn, Name: ls[1], Description: strings.Join(ls[2:], "\n")}
		r.sessions.Stage(ev.User.ID, PromptRouterFileUpload, draft)
		return r.single(promptView(textPromptRouterUpload)), nil

	case PromptPackage:
		if len(ls) < 4 {
			return Response{}, invalid(p, "Incomplete package. Send four lines: name, price, speed, features.")
		}
		var features []string
		for _, f := range strings.Split(ls[3], ",") {
			if f = strings.TrimSpace(f); f != "" {
				features = append(features, f)
			}
		}
		id, err := r.store.AddPackage(ctx, content.Package{Name: ls[0], Price: ls[1], Speed: ls[2], Features: features})
		if err != nil {
			return Response{}, err
		}
		r.sessions.Clear(ev.User.ID)
		logger.Info(ctx, logger.CompContent, "content.package.add", slog.Int64("record_id", id))
		return r.single(adminPackages("✅ The package was added.")), nil

	case PromptFAQ:
		if len(ls) < 2 {
			return Response{}, invalid(p, "Send the question and the answer on separate lines.")
		}
		id, err := r.store.AddFAQ(ctx, content.FAQItem{Question: ls[0], Answer: strings.Join(ls[1:], "\n")})
		if err != nil {
			return Response{}, err
		}
		r.sessions.Clear(ev.User.ID)
		logger.Info(ctx, logger.CompContent, "content.faq.add", slog.Int64("record_id", id))
		return r.single(adminFAQ("✅ The question was added.")), nil
	}
	return Response{}, fmt.Errorf("prompt %s is not a record prompt", p)
}

func (r *Router) inputUpload(ctx context.Context, ev Event, p Prompt, draft *RouterFileDraft) (Response, error) {
	if p == PromptRouterFileUpload {
		if ev.Kind != EventDocument && ev.Kind != EventPhoto {
			return Response{}, invalid(p, "Please send the file as a document or a photo.")
		}
		if draft == nil {
			r.sessions.Begin(ev.User.ID, PromptRouterFileDetails)
			return r.single(promptView(textPromptRouterFile)), nil
		}
		media := content.MediaDocument
		if ev.Kind == EventPhoto {
			media = content.MediaPhoto
		}
		id, err := r.store.AddRouterFile(ctx, content.RouterFile{
			Connection:  draft.Connection,
			Name:        draft.Name,
			Description: draft.Description,
			FileRef:     ev.FileRef,
			FileName:    ev.FileName,
			Media:       media,
		})
		if err != nil {
			return Response{}, err
		}
		r.sessions.Clear(ev.User.ID)
		logger.Info(ctx, logger.CompContent, "content.router_file.add",
			slog.Int64("record_id", id),
			slog.String("kind", string(draft.Connection)),
		)
		return r.single(adminRouterFiles("✅ The router file was added.")), nil
	}

	if ev.Kind != EventPhoto {
		return Response{}, invalid(p, "Please send the image as a photo.")
	}
	key := promptImages[p]
	if err := r.store.PutImage(ctx, key, ev.FileRef); err != nil {
		return Response{}, err
	}
	r.sessions.Clear(ev.User.ID)
	logger.Info(ctx, logger.CompContent, "content.image.update", slog.String("kind", string(key)))
	return r.single(adminImages("✅ The " + string(key) + " image was updated.")), nil
}

func (r *Router) inputAdminID(ctx context.Context, ev Event) (Response, error) {
	text, err := requireText(ev, PromptAdminID)
	if err != nil {
		return Response{}, err
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		return Response{}, invalid(PromptAdminID, "That is not a valid user id. Send a positive number.")
	}
	if r.gate.IsAdmin(id) {
		return Response{}, invalid(PromptAdminID, "This user is already an admin.")
	}
	err = r.store.AddAdmin(ctx, content.AdminEntry{UserID: id})
	if errors.Is(err, content.ErrExists) {
		return Response{}, invalid(PromptAdminID, "This user is already an admin.")
	}
	if err != nil {
		return Response{}, err
	}
	if err := r.gate.Reload(ctx); err != nil {
		return Response{}, err
	}
	r.sessions.Clear(ev.User.ID)
	logger.Info(ctx, logger.CompAccess, "access.admin.add", slog.Int64("record_id", id))
	return r.single(adminManagement(fmt.Sprintf("✅ Admin added: `%d`", id))), nil
}
