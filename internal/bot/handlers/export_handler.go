package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatlens/internal/database"
	"github.com/edgard/chatlens/internal/session"
)

// NewExportHandler returns a handler for the /export command. It writes the
// chat's parsed records into a fresh SQLite file and sends it back.
func NewExportHandler(deps HandlerDeps) bot.HandlerFunc {
	return exportHandler{deps}.Handle
}

type exportHandler struct {
	deps HandlerDeps
}

func (h exportHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "export")
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess, err := h.deps.Sessions.Get(chatID)
	if err != nil {
		return
	}

	dir, err := os.MkdirTemp(h.deps.TempDir, "chatlens-export-")
	if err != nil {
		log.ErrorContext(ctx, "Failed to create export directory", "error", err)
		h.fail(ctx, b, chatID)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, exportFileName(sess.SourceName))
	if err := h.writeDatabase(ctx, path, sess); err != nil {
		log.ErrorContext(ctx, "Failed to write export database", "error", err, "chat_id", chatID)
		h.fail(ctx, b, chatID)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.ErrorContext(ctx, "Failed to open export database", "error", err)
		h.fail(ctx, b, chatID)
		return
	}
	defer f.Close()

	sendCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	_, err = b.SendDocument(sendCtx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: filepath.Base(path), Data: f},
		Caption:  fmt.Sprintf("%d messages", sess.Table.Len()),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send export database", "error", err, "chat_id", chatID)
		return
	}
	log.InfoContext(ctx, "Export database sent", "chat_id", chatID, "messages", sess.Table.Len())
}

func (h exportHandler) writeDatabase(ctx context.Context, path string, sess session.Session) error {
	db, err := database.NewDB(path)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	store := database.NewStore(db, h.deps.Logger)
	if _, err := store.SaveExport(ctx, sess.SourceName, sess.Table); err != nil {
		return err
	}
	return store.RunSQLMaintenance(ctx)
}

func (h exportHandler) fail(ctx context.Context, b *bot.Bot, chatID int64) {
	if err := sendText(ctx, b, chatID, h.deps.Config.Messages.GeneralError); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send error message", "error", err, "chat_id", chatID)
	}
}

// exportFileName derives "<name>.db" from the uploaded file name.
func exportFileName(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "chat"
	}
	return base + ".db"
}
