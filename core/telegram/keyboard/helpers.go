package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes one inline button. URL buttons ignore Unique and Data.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
	URL    string
}

// InlineButtonsRows builds an inline keyboard from rows of InlineBtn. Empty rows are skipped.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tele.InlineButton, 0, len(row))
		for _, btn := range row {
			if btn.URL != "" {
				r = append(r, *markup.URL(btn.Text, btn.URL).Inline())
				continue
			}
			var data []string
			if btn.Data != "" {
				data = append(data, btn.Data)
			}
			r = append(r, *markup.Data(btn.Text, btn.Unique, data...).Inline())
		}
		inline = append(inline, r)
	}
	if len(inline) == 0 {
		return nil
	}
	markup.InlineKeyboard = inline
	return markup
}
