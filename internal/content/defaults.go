package content

// DefaultTexts are seeded when a text block has never been written.
var DefaultTexts = map[TextKey]string{
	TextWelcome: "👋 *Welcome!*\n\nI can help you set up your router, compare our internet packages and answer common questions.\n\nChoose a section below:",
	TextRouterSettings: "⚙️ *Router settings*\n\nPick your connection type to get ready-made configuration files for your router.",
	TextContact: "📞 *Contact us*\n\nSupport is available every day from 9:00 to 21:00.\nReply here or call our hotline.",
}

// DefaultFAQ is seeded when the FAQ is empty.
var DefaultFAQ = []FAQItem{
	{Question: "How do I configure my router?", Answer: "Open Router settings, choose your connection type and download the file for your model."},
	{Question: "What is the difference between ADSL and FTTH?", Answer: "ADSL runs over the telephone line; FTTH is fiber to the home and offers higher speeds."},
	{Question: "How can I reach support?", Answer: "Use the Contact us section for our working hours and hotline."},
}

// DefaultText returns the seed body for key, or an empty string.
func DefaultText(key TextKey) string { return DefaultTexts[key] }
