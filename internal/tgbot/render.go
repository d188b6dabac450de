package tgbot

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/m3rciful/servicebot/core/telegram/helpers"
	"github.com/m3rciful/servicebot/core/telegram/keyboard"
	"github.com/m3rciful/servicebot/internal/bot"

	tele "gopkg.in/telebot.v4"
)

const maxCaption = 1024

// render delivers resp: the alert first, then every view in order. The first view edits
// the pressed message when the router allows it and the view is plain text.
func render(c tele.Context, resp bot.Response) error {
	cb := c.Callback()
	switch {
	case cb != nil && resp.Alert != "":
		if err := helpers.Alert(c, resp.Alert); err != nil {
			return err
		}
	case cb != nil:
		_ = c.Respond()
	case resp.Alert != "" && len(resp.Views) == 0:
		return c.Send(resp.Alert)
	}

	var errs []error
	for i, v := range resp.Views {
		if i == 0 && resp.Replace && cb != nil && v.Photo == "" && v.Document == "" {
			if err := editText(c, v); err == nil {
				continue
			}
		}
		if err := sendView(c, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func markup(rows [][]bot.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := make([][]keyboard.InlineBtn, 0, len(rows))
	for _, row := range rows {
		r := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			r = append(r, keyboard.InlineBtn{Text: b.Text, Unique: b.Token, URL: b.URL})
		}
		kb = append(kb, r)
	}
	return keyboard.InlineButtonsRows(kb...)
}

func editText(c tele.Context, v bot.View) error {
	err := withPlainRetry(v, func(md bool) error {
		return c.Edit(v.Text, editOptions(md, markup(v.Rows)))
	})
	if err != nil && isNotModified(err) {
		return nil
	}
	return err
}

func editOptions(md bool, m *tele.ReplyMarkup) *tele.SendOptions {
	opts := &tele.SendOptions{ReplyMarkup: m}
	if md {
		opts.ParseMode = tele.ModeMarkdown
	}
	return opts
}

func sendView(c tele.Context, v bot.View) error {
	switch {
	case v.Document != "":
		err := withPlainRetry(v, func(md bool) error {
			return helpers.SendDocument(c, v.Document, v.FileName, v.Text, md, markup(v.Rows))
		})
		if err != nil && v.Fallback != "" {
			return helpers.SendText(c, v.Fallback, false, markup(v.Rows))
		}
		return err

	case v.Photo != "":
		caption := v.Text
		long := utf8.RuneCountInString(caption) > maxCaption
		if long {
			caption = ""
		}
		photoMarkup := markup(v.Rows)
		if long {
			photoMarkup = nil
		}
		err := withPlainRetry(v, func(md bool) error {
			return helpers.SendPhoto(c, v.Photo, caption, md, photoMarkup)
		})
		switch {
		case err != nil && v.Fallback != "":
			return helpers.SendText(c, v.Fallback, false, markup(v.Rows))
		case err != nil, long:
			// Missing or stale images degrade to the text alone.
			return sendText(c, v)
		}
		return nil
	}
	return sendText(c, v)
}

func sendText(c tele.Context, v bot.View) error {
	if v.Text == "" {
		return nil
	}
	return withPlainRetry(v, func(md bool) error {
		return helpers.SendText(c, v.Text, md, markup(v.Rows))
	})
}

// withPlainRetry resends without parse mode when Telegram rejects the markdown.
func withPlainRetry(v bot.View, send func(markdown bool) error) error {
	err := send(v.Markdown)
	if err != nil && v.Markdown && isParseError(err) {
		return send(false)
	}
	return err
}

func isParseError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "can't parse entities")
}

func isNotModified(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "message is not modified")
}
