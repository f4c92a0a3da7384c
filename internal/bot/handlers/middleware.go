// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatlens/internal/metrics"
)

// RequireSession creates a middleware that stops commands sent before any
// export was uploaded to the chat and asks for one instead.
func RequireSession(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, bot, update)
				return
			}

			chatID := update.Message.Chat.ID
			if _, err := deps.Sessions.Get(chatID); err != nil {
				log := deps.Logger.With("middleware", "RequireSession")
				log.DebugContext(ctx, "Command without uploaded export", "chat_id", chatID)

				if err := sendText(ctx, bot, chatID, deps.Config.Messages.NoExport); err != nil {
					log.ErrorContext(ctx, "Failed to send no export message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, bot, update)
		}
	}
}

// CountCommand creates a middleware that counts handled commands by name.
func CountCommand(command string) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			metrics.CommandsHandled.WithLabelValues(command).Inc()
			next(ctx, bot, update)
		}
	}
}
