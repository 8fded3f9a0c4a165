package funnel

import (
	"strings"

	"github.com/m3rciful/shopbot/core/conversation"
	tghelpers "github.com/m3rciful/shopbot/core/telegram/helpers"
	"github.com/m3rciful/shopbot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Funnel binds the conversation engine to the Telegram transport: it
// feeds inbound texts into the engine and dispatches the resulting
// render as a message with a reply keyboard.
type Funnel struct {
	engine *conversation.Engine
	locks  *userLocks
}

// New wires a Funnel around the given engine.
func New(engine *conversation.Engine) *Funnel {
	return &Funnel{
		engine: engine,
		locks:  newUserLocks(),
	}
}

// OnText processes one free-form text message. Group chatter is
// ignored: the funnel only talks in private chats.
func (f *Funnel) OnText(c tele.Context) error {
	if c.Sender() == nil || !isPrivate(c) {
		return nil
	}
	userID := c.Sender().ID

	release := f.locks.lock(userID)
	defer release()

	ctx := tghelpers.BuildContext(c)
	render, err := f.engine.Turn(ctx, userID, strings.TrimSpace(c.Text()))
	if err != nil {
		return err
	}
	return f.dispatch(c, render)
}

// Restart rewinds the sender's conversation back to the greeting.
func (f *Funnel) Restart(c tele.Context) error {
	if c.Sender() == nil || !isPrivate(c) {
		return nil
	}
	userID := c.Sender().ID

	release := f.locks.lock(userID)
	defer release()

	ctx := tghelpers.BuildContext(c)
	render, err := f.engine.Restart(ctx, userID)
	if err != nil {
		return err
	}
	return f.dispatch(c, render)
}

func (f *Funnel) dispatch(c tele.Context, r *conversation.Render) error {
	markup := keyboard.ReplyButtons(r.Rows...)
	if len(r.Photo) > 0 {
		return tghelpers.SendPhoto(c, r.Photo, r.Text, markup)
	}
	return tghelpers.SendText(c, r.Text, markup)
}

func isPrivate(c tele.Context) bool {
	chat := c.Chat()
	return chat != nil && chat.Type == tele.ChatPrivate
}
