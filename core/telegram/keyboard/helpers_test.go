package keyboard

import (
	"reflect"
	"testing"
)

func TestReplyButtons(t *testing.T) {
	markup := ReplyButtons([]string{"Торты", "Печенье"}, []string{"Назад"})
	if !markup.ResizeKeyboard {
		t.Fatal("expected resizable keyboard")
	}
	if len(markup.ReplyKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.ReplyKeyboard))
	}
	if len(markup.ReplyKeyboard[0]) != 2 || markup.ReplyKeyboard[0][0].Text != "Торты" {
		t.Fatalf("first row = %v", markup.ReplyKeyboard[0])
	}
	if markup.ReplyKeyboard[1][0].Text != "Назад" {
		t.Fatalf("second row = %v", markup.ReplyKeyboard[1])
	}
}

func TestReplyButtonsEmpty(t *testing.T) {
	markup := ReplyButtons()
	if len(markup.ReplyKeyboard) != 0 {
		t.Fatalf("rows = %d, want 0", len(markup.ReplyKeyboard))
	}
}

func TestRemoveKeyboard(t *testing.T) {
	if !RemoveKeyboard().RemoveKeyboard {
		t.Fatal("expected remove flag")
	}
}

func TestChunkLabels(t *testing.T) {
	labels := []string{"a", "b", "c", "d", "e"}

	got := ChunkLabels(labels, 2)
	want := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("chunk by 2 = %v", got)
	}

	got = ChunkLabels(labels, 1)
	if len(got) != len(labels) {
		t.Fatalf("chunk by 1 rows = %d", len(got))
	}
}
