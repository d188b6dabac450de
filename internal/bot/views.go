package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m3rciful/servicebot/core/telegram/format"
	"github.com/m3rciful/servicebot/internal/action"
	"github.com/m3rciful/servicebot/internal/content"
)

const userDetailsLimit = 10

func btn(text string, n action.Name) Button { return Button{Text: text, Token: string(n)} }

func row(b ...Button) []Button { return b }

func plain(text string) View { return View{Text: text} }

func md(text string) View { return View{Text: text, Markdown: true} }

func back(n action.Name) []Button { return row(btn("🔙 Back", n)) }

func withNotice(notice, text string) string {
	if notice == "" {
		return text
	}
	return notice + "\n\n" + text
}

func maintenanceNotice() View { return md(textMaintenance) }

func unsupportedView() View {
	return View{Text: "🤷 " + textUnsupported, Rows: [][]Button{row(btn("🏠 Main menu", action.MainMenu))}}
}

func notFoundView(parent action.Name) View {
	return View{Text: textNotFound, Rows: [][]Button{back(parent)}}
}

func (r *Router) text(ctx context.Context, key content.TextKey) string {
	t, err := r.store.GetText(ctx, key)
	if err != nil || strings.TrimSpace(t.Body) == "" {
		return content.DefaultText(key)
	}
	return t.Body
}

func (r *Router) image(ctx context.Context, key content.ImageKey) string {
	img, err := r.store.GetImage(ctx, key)
	if err != nil {
		return ""
	}
	return img.FileRef
}

func (r *Router) mainMenu(ctx context.Context, u User, notice string) View {
	rows := [][]Button{
		row(btn("⚙️ Router settings", action.RouterSettings)),
		row(btn("💰 Prices & offers", action.PricesOffers)),
		row(btn("❓ FAQ", action.FAQ)),
		row(btn("📞 Contact us", action.Contact)),
		row(btn("🔗 Share the bot", action.ShareBot)),
	}
	if r.gate.IsAdmin(u.ID) {
		rows = append(rows, row(btn("🛠️ Admin panel", action.AdminMain)))
	}
	return View{
		Text:     withNotice(notice, r.text(ctx, content.TextWelcome)),
		Markdown: true,
		Rows:     rows,
		Photo:    r.image(ctx, content.ImageWelcome),
	}
}

func (r *Router) routerSettingsMenu(ctx context.Context) View {
	return View{
		Text:     r.text(ctx, content.TextRouterSettings),
		Markdown: true,
		Rows: [][]Button{
			row(btn("📡 ADSL", action.RouterADSL), btn("🌐 FTTH", action.RouterFTTH)),
			row(btn("🏠 Main menu", action.MainMenu)),
		},
	}
}

func (r *Router) routerFiles(ctx context.Context, conn content.Connection) Response {
	files, err := r.store.ListRouterFiles(ctx, conn)
	if err != nil {
		return r.failure(ctx, "list_router_files", err)
	}
	views := make([]View, 0, len(files)+1)
	for _, f := range files {
		caption := fmt.Sprintf("📁 *%s*", format.MD(f.Name))
		if f.Description != "" {
			caption += "\n\n" + format.MD(f.Description)
		}
		v := View{Text: caption, Markdown: true, Fallback: caption + "\n\n" + textFileFailed}
		if f.Media == content.MediaPhoto {
			v.Photo = f.FileRef
		} else {
			v.Document = f.FileRef
			v.FileName = f.FileName
		}
		views = append(views, v)
	}
	if len(files) == 0 {
		views = append(views, plain(textNoFiles))
	}
	views = append(views, View{Text: textNextStep, Rows: [][]Button{
		row(btn("🔙 Router settings", action.RouterSettings)),
		row(btn("🏠 Main menu", action.MainMenu)),
	}})
	return Response{Views: views}
}

func (r *Router) prices(ctx context.Context) Response {
	pkgs, err := r.store.ListPackages(ctx)
	if err != nil {
		return r.failure(ctx, "list_packages", err)
	}
	nav := View{Text: textNextStep, Rows: [][]Button{
		row(btn("📞 Contact us", action.Contact)),
		row(btn("🏠 Main menu", action.MainMenu)),
	}}
	if len(pkgs) == 0 {
		return Response{Views: []View{plain(textNoPackages), nav}}
	}
	header := md("💰 *Our packages*")
	header.Photo = r.image(ctx, content.ImagePackages)
	views := []View{header}
	for _, p := range pkgs {
		views = append(views, md(packageText(p)))
	}
	return Response{Views: append(views, nav)}
}

func packageText(p content.Package) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 *%s*\n\n💵 Price: %s\n⚡ Speed: %s", format.MD(p.Name), format.MD(p.Price), format.MD(p.Speed))
	if len(p.Features) > 0 {
		b.WriteString("\n\n✅ Features:")
		for _, f := range p.Features {
			b.WriteString("\n• " + format.MD(f))
		}
	}
	return b.String()
}

func (r *Router) faq(ctx context.Context) Response {
	items, err := r.store.ListFAQ(ctx)
	if err != nil {
		return r.failure(ctx, "list_faq", err)
	}
	nav := View{Text: textNextStep, Rows: [][]Button{
		row(btn("📞 Contact us", action.Contact)),
		row(btn("🏠 Main menu", action.MainMenu)),
	}}
	if len(items) == 0 {
		return Response{Views: []View{plain(textNoFAQ), nav}}
	}
	header := md("❓ *Frequently asked questions*")
	header.Photo = r.image(ctx, content.ImageFAQ)
	views := []View{header}
	for _, it := range items {
		views = append(views, md(fmt.Sprintf("❓ *%s*\n\n✅ %s", format.MD(it.Question), format.MD(it.Answer))))
	}
	return Response{Views: append(views, nav)}
}

func (r *Router) contactView(ctx context.Context) View {
	return View{
		Text:     r.text(ctx, content.TextContact),
		Markdown: true,
		Rows:     [][]Button{row(btn("🏠 Main menu", action.MainMenu))},
	}
}

func (r *Router) shareView() View {
	name := ""
	if r.identity != nil {
		name = r.identity.Username()
	}
	link := "https://t.me/" + name
	text := "🤖 *Service bot*\n\n🔗 Link: " + format.MD(link) +
		"\n\n✅ What we offer:\n• ⚙️ Router settings\n• 💰 Internet packages\n• ❓ Support\n• 📞 Customer service"
	return View{
		Text:     text,
		Markdown: true,
		Rows: [][]Button{
			row(Button{Text: "🔗 Share the link", URL: "https://t.me/share/url?url=" + link}),
			row(btn("🏠 Main menu", action.MainMenu)),
		},
	}
}

func myIDView(userID int64, admin bool) View {
	status := "👤 Regular user"
	hint := "To become an admin, send this id to an existing admin."
	if admin {
		status = "🔧 Admin ✅"
		hint = "Open the admin panel with /admin."
	}
	return md(fmt.Sprintf("🔑 *Your account*\n\n*ID:* `%d`\n*Status:* %s\n\n%s", userID, status, hint))
}

func adminPanel(notice string) View {
	return View{
		Text:     withNotice(notice, textAdminPanel),
		Markdown: true,
		Rows: [][]Button{
			row(btn("📝 Texts", action.AdminTexts), btn("🖼️ Images", action.AdminImages)),
			row(btn("📁 Router files", action.AdminRouterFiles), btn("💰 Packages", action.AdminPackages)),
			row(btn("❓ FAQ", action.AdminFAQ), btn("👥 Admins", action.AdminManagement)),
			row(btn("📊 Statistics", action.AdminStats), btn("🔧 Maintenance", action.AdminMaintenance)),
			row(btn("📢 Broadcast", action.AdminBroadcast)),
			row(btn("🏠 Main menu", action.MainMenu)),
		},
	}
}

func adminTexts(notice string) View {
	return View{
		Text:     withNotice(notice, textAdminTexts),
		Markdown: true,
		Rows: [][]Button{
			row(btn("👋 Welcome text", action.EditWelcomeText)),
			row(btn("⚙️ Router settings text", action.EditSettingsText)),
			row(btn("📞 Contact text", action.EditContactText)),
			back(action.AdminMain),
		},
	}
}

func adminImages(notice string) View {
	return View{
		Text:     withNotice(notice, textAdminImages),
		Markdown: true,
		Rows: [][]Button{
			row(btn("👋 Change welcome", action.ChangeWelcomeImage), btn("🗑 Delete", action.DeleteWelcomeImage)),
			row(btn("💰 Change packages", action.ChangePackagesImage), btn("🗑 Delete", action.DeletePackagesImage)),
			row(btn("❓ Change FAQ", action.ChangeFAQImage), btn("🗑 Delete", action.DeleteFAQImage)),
			back(action.AdminMain),
		},
	}
}

func adminRouterFiles(notice string) View {
	return View{
		Text:     withNotice(notice, textAdminFiles),
		Markdown: true,
		Rows: [][]Button{
			row(btn("➕ Add file", action.AddRouterFile)),
			row(btn("📋 List files", action.ListRouterFiles), btn("🗑 Delete file", action.DeleteRouterFile)),
			back(action.AdminMain),
		},
	}
}

func adminPackages(notice string) View {
	return View{
		Text:     withNotice(notice, textAdminPackages),
		Markdown: true,
		Rows: [][]Button{
			row(btn("➕ Add package", action.AddPackage)),
			row(btn("📋 List packages", action.ListPackages), btn("🗑 Delete package", action.DeletePackage)),
			back(action.AdminMain),
		},
	}
}

func adminFAQ(notice string) View {
	return View{
		Text:     withNotice(notice, textAdminFAQ),
		Markdown: true,
		Rows: [][]Button{
			row(btn("➕ Add question", action.AddFAQ)),
			row(btn("📋 List questions", action.ListFAQ), btn("🗑 Delete question", action.DeleteFAQ)),
			back(action.AdminMain),
		},
	}
}

func adminManagement(notice string) View {
	return View{
		Text:     withNotice(notice, textAdminManagement),
		Markdown: true,
		Rows: [][]Button{
			row(btn("📋 List admins", action.ListAdmins)),
			row(btn("➕ Add admin", action.AddAdmin), btn("➖ Remove admin", action.RemoveAdmin)),
			back(action.AdminMain),
		},
	}
}

// parentMenu renders the management menu a delete kind belongs to.
func parentMenu(kind action.Kind, notice string) View {
	switch kind {
	case action.KindFile:
		return adminRouterFiles(notice)
	case action.KindPackage:
		return adminPackages(notice)
	case action.KindFAQ:
		return adminFAQ(notice)
	default:
		return adminManagement(notice)
	}
}

func parentToken(kind action.Kind) action.Name {
	switch kind {
	case action.KindFile:
		return action.AdminRouterFiles
	case action.KindPackage:
		return action.AdminPackages
	case action.KindFAQ:
		return action.AdminFAQ
	default:
		return action.AdminManagement
	}
}

func promptView(text string) View {
	return View{Text: text, Rows: [][]Button{row(btn("❎ Cancel", action.CancelInput))}}
}

func (r *Router) statsView(ctx context.Context) Response {
	s, err := r.store.Stats(ctx)
	if err != nil {
		return r.failure(ctx, "stats", err)
	}
	text := fmt.Sprintf(`📊 *Bot statistics*

👥 *Users*
   • Unique users: %d
   • Total interactions: %d
   • Average per user: %.1f

📁 *Files and content*
   • ADSL files: %d
   • FTTH files: %d
   • Total files: %d
   • Packages: %d
   • Questions: %d

⚙️ *Settings*
   • Admins: %d
   • Images: %d
   • Texts: %d`,
		s.Users, s.Usage, s.AvgUsage(),
		s.ADSLFiles, s.FTTHFiles, s.Files(), s.Packages, s.FAQ,
		s.Admins, s.Images, s.Texts)
	return r.single(View{Text: text, Markdown: true, Rows: [][]Button{
		row(btn("🔄 Refresh", action.AdminStats)),
		row(btn("📈 User details", action.UserDetails)),
		back(action.AdminMain),
	}})
}

func (r *Router) userDetails(ctx context.Context) Response {
	total, err := r.store.CountUsers(ctx)
	if err != nil {
		return r.failure(ctx, "count_users", err)
	}
	nav := [][]Button{
		row(btn("🔙 Statistics", action.AdminStats)),
		row(btn("🔙 Admin panel", action.AdminMain)),
	}
	if total == 0 {
		return r.single(View{Text: "📭 No user data yet.", Rows: nav})
	}
	users, err := r.store.ListUsers(ctx, userDetailsLimit)
	if err != nil {
		return r.failure(ctx, "list_users", err)
	}
	var b strings.Builder
	b.WriteString("👥 *User details*\n")
	for i, u := range users {
		name := u.Profile.FirstName
		if name == "" {
			name = "No name"
		}
		fmt.Fprintf(&b, "\n%d. %s (`%d`)\n   Interactions: %d\n   First seen: %s\n   Last seen: %s\n",
			i+1, format.MD(name), u.UserID, u.UsageCount, format.Stamp(u.FirstSeen), format.Stamp(u.LastSeen))
	}
	if total > len(users) {
		fmt.Fprintf(&b, "\n📝 %d users in total", total)
	}
	return r.single(View{Text: b.String(), Markdown: true, Rows: nav})
}

func (r *Router) maintenancePanel(notice string) View {
	status := "🟢 *Active*"
	if r.gate.Maintenance() {
		status = "🔴 *Maintenance*"
	}
	return View{
		Text:     withNotice(notice, "🔧 *Maintenance mode*\n\nCurrent status: "+status),
		Markdown: true,
		Rows: [][]Button{
			row(btn("🔴 Enable", action.EnableMaintenance), btn("🟢 Disable", action.DisableMaintenance)),
			back(action.AdminMain),
		},
	}
}

func (r *Router) broadcastPanel(ctx context.Context) Response {
	n, err := r.store.CountUsers(ctx)
	if err != nil {
		return r.failure(ctx, "count_users", err)
	}
	return r.single(View{
		Text:     fmt.Sprintf("📢 *Broadcast*\n\nThe message is sent to every known user.\nKnown users: %d", n),
		Markdown: true,
		Rows: [][]Button{
			row(btn("✍️ Write announcement", action.SendBroadcast)),
			back(action.AdminMain),
		},
	})
}

func (r *Router) listRouterFiles(ctx context.Context) Response {
	files, err := r.store.ListRouterFiles(ctx, "")
	if err != nil {
		return r.failure(ctx, "list_router_files", err)
	}
	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, fmt.Sprintf("• [%s] %s (%s)", f.Connection.Label(), format.MD(f.Name), f.Media))
	}
	return r.single(listView("📋 *Router files*", lines, action.AdminRouterFiles))
}

func (r *Router) listPackages(ctx context.Context) Response {
	pkgs, err := r.store.ListPackages(ctx)
	if err != nil {
		return r.failure(ctx, "list_packages", err)
	}
	lines := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		lines = append(lines, fmt.Sprintf("• %s: %s, %s", format.MD(p.Name), format.MD(p.Price), format.MD(p.Speed)))
	}
	return r.single(listView("📋 *Packages*", lines, action.AdminPackages))
}

func (r *Router) listFAQ(ctx context.Context) Response {
	items, err := r.store.ListFAQ(ctx)
	if err != nil {
		return r.failure(ctx, "list_faq", err)
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, "• "+format.MD(format.Truncate(it.Question, 80, "…")))
	}
	return r.single(listView("📋 *Questions*", lines, action.AdminFAQ))
}

func (r *Router) listAdmins(ctx context.Context) Response {
	admins, err := r.store.ListAdmins(ctx)
	if err != nil {
		return r.failure(ctx, "list_admins", err)
	}
	lines := make([]string, 0, len(admins))
	for _, a := range admins {
		lines = append(lines, "• "+adminLabel(a, true))
	}
	return r.single(listView("📋 *Admins*", lines, action.AdminManagement))
}

func adminLabel(a content.AdminEntry, markdown bool) string {
	id := fmt.Sprintf("%d", a.UserID)
	if markdown {
		id = "`" + id + "`"
	}
	if a.DisplayName == "" {
		return id
	}
	name := a.DisplayName
	if markdown {
		name = format.MD(name)
	}
	return name + " (" + id + ")"
}

func listView(title string, lines []string, parent action.Name) View {
	body := textNothingListed
	if len(lines) > 0 {
		body = strings.Join(lines, "\n")
	}
	return View{Text: title + "\n\n" + body, Markdown: true, Rows: [][]Button{back(parent)}}
}

func isNotFound(err error) bool { return errors.Is(err, content.ErrNotFound) }
