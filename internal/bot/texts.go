package bot

const (
	textMaintenance      = "🔧 *The bot is under maintenance*\n\nPlease try again later."
	textMaintenanceShort = "🔧 The bot is under maintenance"
	textDenied           = "⛔ You do not have access"
	textDeniedCommand    = "⛔ You do not have access to this command."
	textUnsupported      = "Unsupported action"
	textMalformedAction  = "⚠️ This button is broken"
	textStoreFailure     = "⚠️ Something went wrong. Please try again."
	textNotFound         = "🔍 This item no longer exists."
	textNextStep         = "Choose the next step:"
	textCancelled        = "❎ Cancelled."

	textAdminPanel      = "🛠️ *Admin panel*\n\nChoose a section to manage:"
	textAdminTexts      = "📝 *Texts*\n\nChoose the text to edit:"
	textAdminImages     = "🖼️ *Images*\n\nChoose the image to change or delete:"
	textAdminFiles      = "📁 *Router files*"
	textAdminPackages   = "💰 *Packages*"
	textAdminFAQ        = "❓ *FAQ*"
	textAdminManagement = "👥 *Admins*"

	textPromptWelcome      = "✏️ Send the new welcome text:"
	textPromptSettings     = "✏️ Send the new router settings text:"
	textPromptContact      = "✏️ Send the new contact text:"
	textPromptImage        = "🖼️ Send the new %s image as a photo:"
	textPromptRouterFile   = "📁 Send the router details in three lines:\n\n1. Connection type (adsl or ftth)\n2. Router name\n3. Description"
	textPromptRouterUpload = "✅ Details saved. Now send the file or a photo:"
	textPromptPackage      = "💰 Send the package in four lines:\n\n1. Name\n2. Price\n3. Speed\n4. Features, separated by commas"
	textPromptFAQ          = "❓ Send the question on the first line and the answer on the next lines:"
	textPromptAdmin        = "👤 Send the Telegram user id of the new admin.\n\nThey can get it with /myid."
	textPromptBroadcast    = "📢 Send the announcement text:"

	textBroadcastUsage = "📢 *Broadcast*\n\nUsage: `/broadcast your message`"
	textNoUsers        = "📭 No users found."
	textLastAdmin      = "⚠️ The last admin cannot be removed."
	textNoFiles        = "⚠️ No files are available for this type yet."
	textNoPackages     = "📭 No packages are available right now."
	textNoFAQ          = "📭 No questions yet."
	textNothingListed  = "📭 The list is empty."
	textFileFailed     = "❌ The file could not be sent"
)
