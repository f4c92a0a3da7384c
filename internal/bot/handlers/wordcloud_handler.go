package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatlens/internal/wordcloud"
)

// NewWordCloudHandler returns a handler for the /wordcloud command, which
// replies with a PNG image.
func NewWordCloudHandler(deps HandlerDeps) bot.HandlerFunc {
	return wordCloudHandler{deps}.Handle
}

type wordCloudHandler struct {
	deps HandlerDeps
}

func (h wordCloudHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "wordcloud")
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess, err := h.deps.Sessions.Get(chatID)
	if err != nil {
		return
	}

	if _, err := b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionUploadPhoto}); err != nil {
		log.WarnContext(ctx, "Failed to send upload action", "error", err, "chat_id", chatID)
	}

	layout, err := h.deps.Pipeline.Analyzer.WordCloud(sess.SelectedUser, sess.Table)
	if err != nil {
		log.ErrorContext(ctx, "Failed to build word cloud", "error", err, "chat_id", chatID)
		h.fail(ctx, b, chatID)
		return
	}

	var buf bytes.Buffer
	if err := wordcloud.EncodePNG(&buf, layout); err != nil {
		log.ErrorContext(ctx, "Failed to render word cloud", "error", err, "chat_id", chatID)
		h.fail(ctx, b, chatID)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	_, err = b.SendPhoto(sendCtx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "wordcloud.png", Data: &buf},
		Caption: fmt.Sprintf("Word cloud for %s (%d words)", sess.SelectedUser, len(layout.Words)),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send word cloud", "error", err, "chat_id", chatID)
		return
	}
	log.InfoContext(ctx, "Word cloud sent", "chat_id", chatID, "user", sess.SelectedUser, "words", len(layout.Words))
}

func (h wordCloudHandler) fail(ctx context.Context, b *bot.Bot, chatID int64) {
	if err := sendText(ctx, b, chatID, h.deps.Config.Messages.GeneralError); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send error message", "error", err, "chat_id", chatID)
	}
}
