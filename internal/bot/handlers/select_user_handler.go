package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatlens/internal/metrics"
)

// NewSelectUserHandler returns a handler for presses on the user keyboard.
func NewSelectUserHandler(deps HandlerDeps) bot.HandlerFunc {
	return selectUserHandler{deps}.Handle
}

type selectUserHandler struct {
	deps HandlerDeps
}

func (h selectUserHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "select_user")

	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	metrics.CommandsHandled.WithLabelValues("select_user").Inc()

	answer := func(text string) {
		_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID, Text: text})
		if err != nil {
			log.ErrorContext(ctx, "Failed to answer callback query", "error", err)
		}
	}

	if cq.Message.Message == nil {
		log.WarnContext(ctx, "Callback query on inaccessible message", "callback_id", cq.ID)
		answer(h.deps.Config.Messages.SessionExpired)
		return
	}
	chatID := cq.Message.Message.Chat.ID

	sessionID, index, err := parseSelectUserData(cq.Data)
	if err != nil {
		log.WarnContext(ctx, "Invalid callback data", "error", err, "chat_id", chatID)
		answer(h.deps.Config.Messages.SessionExpired)
		return
	}

	sess, err := h.deps.Sessions.Get(chatID)
	if err != nil {
		answer(h.deps.Config.Messages.NoExport)
		return
	}
	if sess.ID != sessionID || index >= len(sess.Users) {
		log.InfoContext(ctx, "Stale user keyboard pressed", "chat_id", chatID, "session_id", sessionID)
		answer(h.deps.Config.Messages.SessionExpired)
		return
	}

	user := sess.Users[index]
	if _, err := h.deps.Sessions.SelectUser(chatID, user); err != nil {
		answer(h.deps.Config.Messages.NoExport)
		return
	}
	log.InfoContext(ctx, "User selected", "chat_id", chatID, "user", user)

	text := fmt.Sprintf(h.deps.Config.Messages.UserSelected, user)
	answer(text)
	if err := sendText(ctx, b, chatID, text); err != nil {
		log.ErrorContext(ctx, "Failed to send selection message", "error", err, "chat_id", chatID)
	}
}
