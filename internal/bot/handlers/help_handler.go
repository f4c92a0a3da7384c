package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")

	if update.Message == nil {
		log.WarnContext(ctx, "Help handler received update with nil message", "update_id", update.ID)
		return
	}

	log.InfoContext(ctx, "Handling /help command", "chat_id", update.Message.Chat.ID)

	if err := sendText(ctx, b, update.Message.Chat.ID, withBotName(h.deps, h.deps.Config.Messages.Help)); err != nil {
		log.ErrorContext(ctx, "Failed to send help message", "error", err, "chat_id", update.Message.Chat.ID)
	}
}

// NewFallbackHandler returns the handler for updates no command matched. It
// answers stray private text with the help message and ignores the rest.
func NewFallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	help := helpHandler{deps}
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.Text == "" || update.Message.Chat.Type != models.ChatTypePrivate {
			return
		}
		help.Handle(ctx, b, update)
	}
}
