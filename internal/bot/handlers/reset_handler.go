package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatlens/internal/metrics"
)

// NewResetHandler returns a handler for the /reset command.
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset")
	if update.Message == nil {
		log.ErrorContext(ctx, "Reset handler called with nil Message", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	existed := h.deps.Sessions.Delete(chatID)
	metrics.ActiveSessions.Set(float64(h.deps.Sessions.Len()))
	log.InfoContext(ctx, "Chat session reset", "chat_id", chatID, "existed", existed)

	if err := sendText(ctx, b, chatID, h.deps.Config.Messages.Reset); err != nil {
		log.ErrorContext(ctx, "Failed to send reset confirmation message", "error", err, "chat_id", chatID)
	}
}
