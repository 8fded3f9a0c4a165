package telegram

import (
	"testing"

	"github.com/m3rciful/shopbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noop(c tele.Context) error { return nil }

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     noop,
		Description: "start",
		Aliases:     []string{"begin"},
	})

	key, _, ok := reg.LookupCommand("/start")
	if !ok || key != "/start" {
		t.Fatalf("lookup /start: ok=%v key=%q", ok, key)
	}
	key, _, ok = reg.LookupCommand("begin")
	if !ok || key != "/start" {
		t.Fatalf("lookup alias: ok=%v key=%q", ok, key)
	}
	if _, _, ok := reg.LookupCommand("Торты"); ok {
		t.Fatal("plain text must not resolve to a command")
	}
}

func TestRegistryRejectsInvalid(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "no slash"})
	reg.RegisterCommand("/nodesc", commands.Command{Handler: noop})
	reg.RegisterCommand("/nohandler", commands.Command{Description: "x"})
	if len(reg.Commands()) != 0 {
		t.Fatalf("commands = %d, want 0", len(reg.Commands()))
	}
}

func TestRegistryListHidesAdminCommands(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/help", commands.Command{Handler: noop, Description: "help"})
	reg.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "stats", AdminOnly: true, Hidden: true})

	visible := reg.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "/help" {
		t.Fatalf("visible = %v", visible)
	}
	if all := reg.ListCommands(false); len(all) != 2 {
		t.Fatalf("all = %v", all)
	}
}
