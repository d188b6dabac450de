package action

// Public navigation.
const (
	MainMenu       Name = "main_menu"
	RouterSettings Name = "router_settings"
	RouterADSL     Name = "router_adsl"
	RouterFTTH     Name = "router_ftth"
	PricesOffers   Name = "prices_offers"
	FAQ            Name = "faq"
	Contact        Name = "contact"
	ShareBot       Name = "share_bot"
)

// Admin panel sections.
const (
	AdminMain        Name = "admin_main"
	AdminTexts       Name = "admin_texts"
	AdminImages      Name = "admin_images"
	AdminRouterFiles Name = "admin_router_files"
	AdminPackages    Name = "admin_packages"
	AdminFAQ         Name = "admin_faq"
	AdminManagement  Name = "admin_management"
	AdminStats       Name = "admin_stats"
	AdminMaintenance Name = "admin_maintenance"
	AdminBroadcast   Name = "admin_broadcast"
)

// Admin operations.
const (
	EditWelcomeText     Name = "edit_welcome_text"
	EditSettingsText    Name = "edit_settings_text"
	EditContactText     Name = "edit_contact_text"
	ChangeWelcomeImage  Name = "change_welcome_image"
	ChangePackagesImage Name = "change_packages_image"
	ChangeFAQImage      Name = "change_faq_image"
	DeleteWelcomeImage  Name = "delete_welcome_image"
	DeletePackagesImage Name = "delete_packages_image"
	DeleteFAQImage      Name = "delete_faq_image"
	AddRouterFile       Name = "add_router_file"
	ListRouterFiles     Name = "list_router_files"
	DeleteRouterFile    Name = "delete_router_file"
	AddPackage          Name = "add_package"
	ListPackages        Name = "list_packages"
	DeletePackage       Name = "delete_package"
	AddFAQ              Name = "add_faq"
	ListFAQ             Name = "list_faq"
	DeleteFAQ           Name = "delete_faq"
	ListAdmins          Name = "list_admins"
	AddAdmin            Name = "add_admin"
	RemoveAdmin         Name = "remove_admin"
	UserDetails         Name = "user_details"
	EnableMaintenance   Name = "enable_maintenance"
	DisableMaintenance  Name = "disable_maintenance"
	SendBroadcast       Name = "send_broadcast"
	CancelInput         Name = "cancel_input"
)

// statics maps every static token to whether it is public.
var statics = map[Name]bool{
	MainMenu:       true,
	RouterSettings: true,
	RouterADSL:     true,
	RouterFTTH:     true,
	PricesOffers:   true,
	FAQ:            true,
	Contact:        true,
	ShareBot:       true,

	AdminMain:           false,
	AdminTexts:          false,
	AdminImages:         false,
	AdminRouterFiles:    false,
	AdminPackages:       false,
	AdminFAQ:            false,
	AdminManagement:     false,
	AdminStats:          false,
	AdminMaintenance:    false,
	AdminBroadcast:      false,
	EditWelcomeText:     false,
	EditSettingsText:    false,
	EditContactText:     false,
	ChangeWelcomeImage:  false,
	ChangePackagesImage: false,
	ChangeFAQImage:      false,
	DeleteWelcomeImage:  false,
	DeletePackagesImage: false,
	DeleteFAQImage:      false,
	AddRouterFile:       false,
	ListRouterFiles:     false,
	DeleteRouterFile:    false,
	AddPackage:          false,
	ListPackages:        false,
	DeletePackage:       false,
	AddFAQ:              false,
	ListFAQ:             false,
	DeleteFAQ:           false,
	ListAdmins:          false,
	AddAdmin:            false,
	RemoveAdmin:         false,
	UserDetails:         false,
	EnableMaintenance:   false,
	DisableMaintenance:  false,
	SendBroadcast:       false,
	CancelInput:         true,
}

// Is reports whether a is the static action n.
func Is(a Action, n Name) bool {
	s, ok := a.(Static)
	return ok && s.Name == n
}
