// Package commands defines the command metadata consumed by the registry.
package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command binds a slash-command handler to its menu metadata. Hidden
// commands are never listed in the Telegram command menu; AdminOnly
// ones additionally pass through the admin gate before dispatch.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Aliases     []string
	AdminOnly   bool
	Hidden      bool
}
