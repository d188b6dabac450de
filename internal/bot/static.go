package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/servicebot/core/logger"
	"github.com/m3rciful/servicebot/internal/action"
	"github.com/m3rciful/servicebot/internal/content"
)

// prompts maps every prompt-opening action to its prompt and instruction.
var prompts = map[action.Name]struct {
	prompt Prompt
	text   string
}{
	action.EditWelcomeText:     {PromptWelcomeText, textPromptWelcome},
	action.EditSettingsText:    {PromptSettingsText, textPromptSettings},
	action.EditContactText:     {PromptContactText, textPromptContact},
	action.ChangeWelcomeImage:  {PromptWelcomeImage, fmt.Sprintf(textPromptImage, "welcome")},
	action.ChangePackagesImage: {PromptPackagesImage, fmt.Sprintf(textPromptImage, "packages")},
	action.ChangeFAQImage:      {PromptFAQImage, fmt.Sprintf(textPromptImage, "FAQ")},
	action.AddRouterFile:       {PromptRouterFileDetails, textPromptRouterFile},
	action.AddPackage:          {PromptPackage, textPromptPackage},
	action.AddFAQ:              {PromptFAQ, textPromptFAQ},
	action.AddAdmin:            {PromptAdminID, textPromptAdmin},
	action.SendBroadcast:       {PromptBroadcast, textPromptBroadcast},
}

var imageDeletes = map[action.Name]content.ImageKey{
	action.DeleteWelcomeImage:  content.ImageWelcome,
	action.DeletePackagesImage: content.ImagePackages,
	action.DeleteFAQImage:      content.ImageFAQ,
}

func (r *Router) runStatic(ctx context.Context, u User, name action.Name) Response {
	if p, ok := prompts[name]; ok {
		r.sessions.Begin(u.ID, p.prompt)
		logger.Debug(ctx, logger.CompRouter, "prompt.open", slog.String("prompt", p.prompt.String()))
		return r.single(promptView(p.text))
	}
	if key, ok := imageDeletes[name]; ok {
		return r.deleteImage(ctx, key)
	}

	switch name {
	case action.MainMenu:
		return r.single(r.mainMenu(ctx, u, ""))
	case action.RouterSettings:
		return r.single(r.routerSettingsMenu(ctx))
	case action.RouterADSL:
		return r.routerFiles(ctx, content.ADSL)
	case action.RouterFTTH:
		return r.routerFiles(ctx, content.FTTH)
	case action.PricesOffers:
		return r.prices(ctx)
	case action.FAQ:
		return r.faq(ctx)
	case action.Contact:
		return r.single(r.contactView(ctx))
	case action.ShareBot:
		return r.single(r.shareView())
	case action.CancelInput:
		view := adminPanel(textCancelled)
		if !r.gate.IsAdmin(u.ID) {
			view = r.mainMenu(ctx, u, textCancelled)
		}
		resp := r.single(view)
		resp.Outcome = OutcomeCancelled
		return resp

	case action.AdminMain:
		return r.single(adminPanel(""))
	case action.AdminTexts:
		return r.single(adminTexts(""))
	case action.AdminImages:
		return r.single(adminImages(""))
	case action.AdminRouterFiles:
		return r.single(adminRouterFiles(""))
	case action.AdminPackages:
		return r.single(adminPackages(""))
	case action.AdminFAQ:
		return r.single(adminFAQ(""))
	case action.AdminManagement:
		return r.single(adminManagement(""))
	case action.AdminStats:
		return r.statsView(ctx)
	case action.UserDetails:
		return r.userDetails(ctx)
	case action.AdminMaintenance:
		return r.single(r.maintenancePanel(""))
	case action.EnableMaintenance, action.DisableMaintenance:
		return r.setMaintenance(ctx, name == action.EnableMaintenance, func(notice string) Response {
			return r.single(r.maintenancePanel(notice))
		})
	case action.AdminBroadcast:
		return r.broadcastPanel(ctx)

	case action.ListRouterFiles:
		return r.listRouterFiles(ctx)
	case action.ListPackages:
		return r.listPackages(ctx)
	case action.ListFAQ:
		return r.listFAQ(ctx)
	case action.ListAdmins:
		return r.listAdmins(ctx)

	case action.DeleteRouterFile:
		return r.deleteList(ctx, u, action.KindFile)
	case action.DeletePackage:
		return r.deleteList(ctx, u, action.KindPackage)
	case action.DeleteFAQ:
		return r.deleteList(ctx, u, action.KindFAQ)
	case action.RemoveAdmin:
		return r.deleteList(ctx, u, action.KindAdmin)
	}
	return Response{Views: []View{unsupportedView()}, Outcome: OutcomeUnsupported}
}

func (r *Router) deleteImage(ctx context.Context, key content.ImageKey) Response {
	err := r.store.DeleteImage(ctx, key)
	switch {
	case isNotFound(err):
		return r.single(adminImages("ℹ️ No " + string(key) + " image is set."))
	case err != nil:
		return r.failure(ctx, "delete_image", err)
	}
	logger.Info(ctx, logger.CompContent, "content.image.delete", slog.String("kind", string(key)))
	return r.single(adminImages("✅ The " + string(key) + " image was deleted."))
}

func (r *Router) setMaintenance(ctx context.Context, on bool, render func(notice string) Response) Response {
	if err := r.gate.SetMaintenance(ctx, on); err != nil {
		return r.failure(ctx, "set_maintenance", err)
	}
	if on {
		return render("🔴 *Maintenance enabled.* Only admins can use the bot now.")
	}
	return render("🟢 *Maintenance disabled.* The bot is available to everyone.")
}

// maintenanceCommand handles /maintenance [on|off]; no argument reports the status.
func (r *Router) maintenanceCommand(ctx context.Context, arg string) Response {
	render := func(notice string) Response { return r.single(md(notice)) }
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "":
		status := "🟢 *Active*"
		if r.gate.Maintenance() {
			status = "🔴 *Maintenance*"
		}
		return render("🔧 *Bot status:* " + status + "\n\nUse `/maintenance on` or `/maintenance off`.")
	case "on":
		return r.setMaintenance(ctx, true, render)
	case "off":
		return r.setMaintenance(ctx, false, render)
	default:
		return Response{Views: []View{md("❌ Invalid argument. Use `/maintenance on` or `/maintenance off`.")}, Outcome: OutcomeInvalid}
	}
}
