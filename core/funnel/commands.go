package funnel

import (
	"fmt"

	"github.com/m3rciful/shopbot/core/catalog"
	tg "github.com/m3rciful/shopbot/core/telegram"
	"github.com/m3rciful/shopbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/shopbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const helpText = "Бот-витрина кондитерской.\n" +
	"Напишите любое сообщение, чтобы начать, и дальше выбирайте кнопками.\n" +
	"Кнопки «Назад…» возвращают на предыдущий шаг.\n\n" +
	"/start — начать сначала\n" +
	"/help — эта справка"

// RegisterCommands wires the funnel's slash commands into the registry
// and installs the text fallback that drives the funnel itself.
func RegisterCommands(reg *tg.Registry, f *Funnel, snap *catalog.Snapshot) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     f.Restart,
		Description: "Начать сначала",
	})

	reg.RegisterCommand("/help", commands.Command{
		Handler: func(c tele.Context) error {
			return tghelpers.SendText(c, helpText)
		},
		Description: "Справка",
	})

	reg.RegisterCommand("/stats", commands.Command{
		Handler: func(c tele.Context) error {
			text := fmt.Sprintf("Категорий: %d\nТоваров: %d",
				len(snap.CategoryNames()), len(snap.GoodsNames()))
			return tghelpers.SendText(c, text)
		},
		Description: "Размер каталога",
		AdminOnly:   true,
		Hidden:      true,
	})

	reg.SetTextFallback(f.OnText)
}
