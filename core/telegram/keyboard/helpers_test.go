package keyboard

import "testing"

func TestInlineButtonsRows(t *testing.T) {
	markup := InlineButtonsRows(
		[]InlineBtn{{Text: "Main", Unique: "main_menu"}},
		nil,
		[]InlineBtn{{Text: "Share", URL: "https://t.me/share/url?url=x"}, {Text: "Cancel", Unique: "admin_main"}},
	)
	if markup == nil {
		t.Fatal("expected markup")
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	first := markup.InlineKeyboard[0][0]
	if first.Unique != "main_menu" || first.Data != "" {
		t.Fatalf("callback button = %+v", first)
	}
	share := markup.InlineKeyboard[1][0]
	if share.URL == "" || share.Data != "" {
		t.Fatalf("url button = %+v", share)
	}
	if cancel := markup.InlineKeyboard[1][1]; cancel.Unique != "admin_main" {
		t.Fatalf("cancel button = %+v", cancel)
	}
}

func TestInlineButtonsEmpty(t *testing.T) {
	if InlineButtonsRows() != nil {
		t.Fatal("expected nil markup for no rows")
	}
}
