package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewUserHandler returns a handler for "/user <name>", which selects a user
// by name without the keyboard.
func NewUserHandler(deps HandlerDeps) bot.HandlerFunc {
	return userHandler{deps}.Handle
}

type userHandler struct {
	deps HandlerDeps
}

func (h userHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "user")
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	msgs := h.deps.Config.Messages
	reply := func(text string) {
		if err := sendText(ctx, b, chatID, text); err != nil {
			log.ErrorContext(ctx, "Failed to send user reply", "error", err, "chat_id", chatID)
		}
	}

	name := commandArgs(update.Message.Text)
	if name == "" {
		reply(msgs.ProvideUser)
		return
	}

	sess, err := h.deps.Sessions.Get(chatID)
	if err != nil {
		reply(msgs.NoExport)
		return
	}
	if !h.deps.Pipeline.Analyzer.HasUser(name, sess.Table) {
		log.InfoContext(ctx, "Unknown user requested", "chat_id", chatID, "user", name)
		reply(msgs.UnknownUser)
		return
	}

	if _, err := h.deps.Sessions.SelectUser(chatID, name); err != nil {
		reply(msgs.NoExport)
		return
	}
	log.InfoContext(ctx, "User selected", "chat_id", chatID, "user", name)
	reply(fmt.Sprintf(msgs.UserSelected, name))
}
