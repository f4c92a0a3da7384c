// Package logger builds the slog logger used across chatlens and the
// Telegram update logging middleware.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ParseLevel maps a configured level name to a slog level; unknown names
// fall back to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a text or JSON logger writing to w (stdout when nil) and
// installs it as the slog default.
func NewLogger(levelStr string, jsonOutput bool, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(levelStr)}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// Middleware logs every Telegram update with its chat, sender and duration.
// Uploaded documents are logged by name and size, never by content.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()
			logEntry := log.With("update_id", update.ID)

			updateType := "other"
			switch {
			case update.Message != nil:
				updateType = "message"
				msg := update.Message
				logEntry = logEntry.With("message_id", msg.ID, "chat_id", msg.Chat.ID)
				if msg.From != nil {
					logEntry = logEntry.With("user_id", msg.From.ID)
				}
				if msg.Document != nil {
					updateType = "document"
					logEntry = logEntry.With(
						"file_name", msg.Document.FileName,
						"file_size", msg.Document.FileSize,
						"mime_type", msg.Document.MimeType,
					)
				} else {
					logEntry = logEntry.With("text_preview", truncateString(msg.Text, 50))
				}
			case update.CallbackQuery != nil:
				updateType = "callback_query"
				cq := update.CallbackQuery
				logEntry = logEntry.With("callback_query_id", cq.ID, "user_id", cq.From.ID, "data", cq.Data)
				if cq.Message.Message != nil {
					logEntry = logEntry.With("chat_id", cq.Message.Message.Chat.ID)
				} else if cq.Message.InaccessibleMessage != nil {
					logEntry = logEntry.With("chat_id", cq.Message.InaccessibleMessage.Chat.ID)
				}
			}
			logEntry = logEntry.With("update_type", updateType)

			logEntry.InfoContext(ctx, "Processing update")
			next(ctx, b, update)
			logEntry.InfoContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(r[:maxLen-3]) + "..."
}
