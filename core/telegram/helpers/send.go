package helpers

import tele "gopkg.in/telebot.v4"

func mdOptions(markdown bool, markup *tele.ReplyMarkup) *tele.SendOptions {
	opts := &tele.SendOptions{ReplyMarkup: markup}
	if markdown {
		opts.ParseMode = tele.ModeMarkdown
	}
	return opts
}

// SendText sends text to the current chat. Markdown selects the legacy Markdown parse mode.
func SendText(c tele.Context, text string, markdown bool, markup *tele.ReplyMarkup) error {
	return c.Send(text, mdOptions(markdown, markup))
}

// EditOrSendText edits the message behind a callback, or sends a new one for other updates.
func EditOrSendText(c tele.Context, text string, markdown bool, markup *tele.ReplyMarkup) error {
	return c.EditOrSend(text, mdOptions(markdown, markup))
}

// SendPhoto sends a photo by file id with an optional caption.
func SendPhoto(c tele.Context, fileID, caption string, markdown bool, markup *tele.ReplyMarkup) error {
	photo := &tele.Photo{File: tele.File{FileID: fileID}, Caption: caption}
	return c.Send(photo, mdOptions(markdown, markup))
}

// SendDocument sends a document by file id with an optional caption.
func SendDocument(c tele.Context, fileID, fileName, caption string, markdown bool, markup *tele.ReplyMarkup) error {
	doc := &tele.Document{File: tele.File{FileID: fileID}, FileName: fileName, Caption: caption}
	return c.Send(doc, mdOptions(markdown, markup))
}

// Alert answers the current callback with a pop-up. Outside callbacks it falls back to a plain message.
func Alert(c tele.Context, text string) error {
	if c.Callback() == nil {
		return c.Send(text)
	}
	return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
}
