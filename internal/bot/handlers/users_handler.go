package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewUsersHandler returns a handler for the /users command, which offers the
// selectable users as an inline keyboard.
func NewUsersHandler(deps HandlerDeps) bot.HandlerFunc {
	return usersHandler{deps}.Handle
}

type usersHandler struct {
	deps HandlerDeps
}

func (h usersHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "users")
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess, err := h.deps.Sessions.Get(chatID)
	if err != nil {
		log.WarnContext(ctx, "No session for /users", "chat_id", chatID)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()
	_, err = b.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.deps.Config.Messages.ChooseUser,
		ReplyMarkup: userKeyboard(sess, h.deps.Config.Telegram.KeyboardColumns),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send user keyboard", "error", err, "chat_id", chatID)
	}
}
