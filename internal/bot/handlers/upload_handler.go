package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatlens/internal/chatexport"
	"github.com/edgard/chatlens/internal/metrics"
)

const uploadSource = "bot"

// NewUploadHandler returns a handler for documents sent to the bot. A parsed
// export replaces the chat's session and resets the selection to Overall.
func NewUploadHandler(deps HandlerDeps) bot.HandlerFunc {
	return uploadHandler{deps}.Handle
}

// IsDocumentUpload matches messages carrying a document.
func IsDocumentUpload(update *models.Update) bool {
	return update.Message != nil && update.Message.Document != nil
}

type uploadHandler struct {
	deps HandlerDeps
}

func (h uploadHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "upload")

	if !IsDocumentUpload(update) {
		log.WarnContext(ctx, "Upload handler received update without document", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	doc := update.Message.Document
	msgs := h.deps.Config.Messages
	limit := h.deps.Config.Telegram.MaxUploadBytes

	reply := func(text string) {
		if err := sendText(ctx, b, chatID, text); err != nil {
			log.ErrorContext(ctx, "Failed to send upload reply", "error", err, "chat_id", chatID)
		}
	}

	if !isTextDocument(doc) {
		log.InfoContext(ctx, "Rejected non-text document", "chat_id", chatID, "file_name", doc.FileName, "mime_type", doc.MimeType)
		metrics.ExportsRejected.WithLabelValues(uploadSource, "not_text").Inc()
		reply(msgs.NotText)
		return
	}
	if doc.FileSize > limit {
		log.InfoContext(ctx, "Rejected oversized document", "chat_id", chatID, "file_size", doc.FileSize, "limit", limit)
		metrics.ExportsRejected.WithLabelValues(uploadSource, "too_large").Inc()
		reply(msgs.UploadTooLarge)
		return
	}

	if _, err := b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping}); err != nil {
		log.WarnContext(ctx, "Failed to send typing action", "error", err, "chat_id", chatID)
	}

	table, err := h.fetchAndParse(ctx, b, doc.FileID, limit)
	switch {
	case errors.Is(err, chatexport.ErrInputTooLarge):
		reply(msgs.UploadTooLarge)
		return
	case errors.Is(err, errEmptyFile):
		reply(msgs.ExportEmpty)
		return
	case err != nil:
		log.ErrorContext(ctx, "Failed to load uploaded export", "error", err, "chat_id", chatID)
		reply(msgs.GeneralError)
		return
	}

	if table.Len() == 0 {
		log.InfoContext(ctx, "Uploaded document has no chat records", "chat_id", chatID, "file_name", doc.FileName)
		reply(msgs.ExportEmpty)
		return
	}

	analyzer := h.deps.Pipeline.Analyzer
	users := analyzer.UserOptions(table)
	sess := h.deps.Sessions.Put(chatID, doc.FileName, table, users, analyzer.OverallLabel())
	metrics.ActiveSessions.Set(float64(h.deps.Sessions.Len()))

	log.InfoContext(ctx, "Export loaded into session",
		"chat_id", chatID,
		"session_id", sess.ID,
		"messages", table.Len(),
		"users", len(users)-1)

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()
	_, err = b.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        fmt.Sprintf(msgs.ExportLoaded, table.Len(), len(users)-1),
		ReplyMarkup: userKeyboard(sess, h.deps.Config.Telegram.KeyboardColumns),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send export loaded message", "error", err, "chat_id", chatID)
	}
}

func (h uploadHandler) fetchAndParse(ctx context.Context, b *bot.Bot, fileID string, limit int64) (*chatexport.Table, error) {
	downloadCtx, cancel := context.WithTimeout(ctx, h.deps.Config.Telegram.DownloadTimeout)
	defer cancel()

	body, err := downloadDocument(downloadCtx, b, h.deps.httpClient(), fileID, limit)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return h.deps.Pipeline.Parse(body, uploadSource)
}
