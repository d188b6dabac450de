package bot

import "github.com/m3rciful/servicebot/internal/content"

// Prompt is the input a user is expected to send next. The zero value is idle.
type Prompt int

// Prompts.
const (
	PromptNone Prompt = iota
	PromptWelcomeText
	PromptSettingsText
	PromptContactText
	PromptBroadcast
	PromptRouterFileDetails
	PromptRouterFileUpload
	PromptPackage
	PromptFAQ
	PromptWelcomeImage
	PromptPackagesImage
	PromptFAQImage
	PromptAdminID
)

var promptNames = map[Prompt]string{
	PromptNone:              "none",
	PromptWelcomeText:       "edit_welcome_text",
	PromptSettingsText:      "edit_settings_text",
	PromptContactText:       "edit_contact_text",
	PromptBroadcast:         "broadcast",
	PromptRouterFileDetails: "router_file_details",
	PromptRouterFileUpload:  "router_file_upload",
	PromptPackage:           "package",
	PromptFAQ:               "faq",
	PromptWelcomeImage:      "welcome_image",
	PromptPackagesImage:     "packages_image",
	PromptFAQImage:          "faq_image",
	PromptAdminID:           "admin_id",
}

func (p Prompt) String() string {
	if s, ok := promptNames[p]; ok {
		return s
	}
	return "unknown"
}

// Step is the shape of input a prompt accepts.
type Step int

// Steps.
const (
	StepIdle Step = iota
	StepSingleLineText
	StepMultilineRecord
	StepBinaryUpload
	StepNumericID
)

// Step returns the input shape of p.
func (p Prompt) Step() Step {
	switch p {
	case PromptWelcomeText, PromptSettingsText, PromptContactText, PromptBroadcast:
		return StepSingleLineText
	case PromptRouterFileDetails, PromptPackage, PromptFAQ:
		return StepMultilineRecord
	case PromptRouterFileUpload, PromptWelcomeImage, PromptPackagesImage, PromptFAQImage:
		return StepBinaryUpload
	case PromptAdminID:
		return StepNumericID
	default:
		return StepIdle
	}
}

// RouterFileDraft is staged by the details prompt and consumed by the upload prompt.
type RouterFileDraft struct {
	Connection  content.Connection
	Name        string
	Description string
}

var promptTexts = map[Prompt]content.TextKey{
	PromptWelcomeText:  content.TextWelcome,
	PromptSettingsText: content.TextRouterSettings,
	PromptContactText:  content.TextContact,
}

var promptImages = map[Prompt]content.ImageKey{
	PromptWelcomeImage:  content.ImageWelcome,
	PromptPackagesImage: content.ImagePackages,
	PromptFAQImage:      content.ImageFAQ,
}
