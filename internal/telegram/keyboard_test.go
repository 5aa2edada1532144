package telegram

import "testing"

func TestKeyboardBuilder_SingleRow(t *testing.T) {
	kb := NewKeyboard().
		Button("Btn1", "data1").
		Button("Btn2", "data2").
		Row().
		Build()

	if len(kb.InlineKeyboard) != 1 {
		t.Fatalf("expected 1 row, got %d", len(kb.InlineKeyboard))
	}
	if len(kb.InlineKeyboard[0]) != 2 {
		t.Errorf("expected 2 buttons, got %d", len(kb.InlineKeyboard[0]))
	}
	if kb.InlineKeyboard[0][0].Text != "Btn1" {
		t.Errorf("expected Btn1, got %s", kb.InlineKeyboard[0][0].Text)
	}
	if *kb.InlineKeyboard[0][0].CallbackData != "data1" {
		t.Errorf("expected data1, got %s", *kb.InlineKeyboard[0][0].CallbackData)
	}
}

func TestKeyboardBuilder_ButtonRow(t *testing.T) {
	kb := NewKeyboard().
		Button("A", "a").
		ButtonRow("Cancel", "cancel_upload").
		Button("B", "b").
		Build()

	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(kb.InlineKeyboard))
	}
	if got := kb.InlineKeyboard[1][0].Text; got != "Cancel" {
		t.Errorf("expected Cancel on its own row, got %s", got)
	}
	if len(kb.InlineKeyboard[1]) != 1 {
		t.Errorf("expected 1 button in middle row, got %d", len(kb.InlineKeyboard[1]))
	}
}

func TestKeyboardBuilder_Empty(t *testing.T) {
	kb := NewKeyboard().Build()
	if len(kb.InlineKeyboard) != 0 {
		t.Errorf("expected empty keyboard, got %d rows", len(kb.InlineKeyboard))
	}
}

func TestReplyKeyboard(t *testing.T) {
	kb := ReplyKeyboard([]string{"A", "B"}, []string{"C"})
	if !kb.ResizeKeyboard {
		t.Error("expected resized keyboard")
	}
	if len(kb.Keyboard) != 2 || len(kb.Keyboard[0]) != 2 || len(kb.Keyboard[1]) != 1 {
		t.Fatalf("unexpected layout: %+v", kb.Keyboard)
	}
	if kb.Keyboard[1][0].Text != "C" {
		t.Errorf("expected C, got %s", kb.Keyboard[1][0].Text)
	}
}
