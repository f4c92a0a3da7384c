package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatlens/internal/session"
)

const (
	sendMessageTimeout = 10 * time.Second
	uploadTimeout      = time.Minute

	// maxMessageRunes stays below Telegram's 4096 character limit.
	maxMessageRunes = 4000

	selectUserPrefix = "user:"
)

var errEmptyFile = errors.New("received empty file data")

// downloadDocument fetches an uploaded file into memory. Reading stops one
// byte past limit so the parser can reject oversized input.
func downloadDocument(ctx context.Context, b *bot.Bot, client *http.Client, fileID string, limit int64) (io.ReadCloser, error) {
	if fileID == "" {
		return nil, fmt.Errorf("empty fileID provided")
	}
	fileObj, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if fileObj.FilePath == "" {
		return nil, fmt.Errorf("empty file path returned from Telegram")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileDownloadLink(fileObj), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	if resp.ContentLength == 0 {
		resp.Body.Close()
		return nil, errEmptyFile
	}
	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, limit+1), resp.Body}, nil
}

// sendText sends text, split into several messages when it is too long.
func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) error {
	for _, chunk := range splitMessage(text, maxMessageRunes) {
		sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
		_, err := b.SendMessage(sendCtx, &bot.SendMessageParams{ChatID: chatID, Text: chunk})
		cancel()
		if err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
	}
	return nil
}

// splitMessage cuts text into chunks of at most limit runes, preferring line
// boundaries.
func splitMessage(text string, limit int) []string {
	if text == "" {
		return nil
	}
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		sep := 0
		if currentLen > 0 {
			sep = 1
		}
		if currentLen+sep+len(runes) > limit {
			flush()
			sep = 0
		}
		if sep == 1 {
			current.WriteByte('\n')
		}
		current.WriteString(string(runes))
		currentLen += sep + len(runes)
	}
	flush()
	return chunks
}

// userKeyboard lays the selectable users out in rows of columns buttons. The
// callback data carries the session ID so stale keyboards can be detected.
func userKeyboard(sess session.Session, columns int) *models.InlineKeyboardMarkup {
	if columns <= 0 {
		columns = 1
	}
	var rows [][]models.InlineKeyboardButton
	for i, user := range sess.Users {
		if i%columns == 0 {
			rows = append(rows, nil)
		}
		label := user
		if user == sess.SelectedUser {
			label = "> " + user
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], models.InlineKeyboardButton{
			Text:         label,
			CallbackData: selectUserData(sess.ID, i),
		})
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func selectUserData(sessionID string, index int) string {
	return selectUserPrefix + sessionID + ":" + strconv.Itoa(index)
}

// parseSelectUserData splits callback data built by selectUserData.
func parseSelectUserData(data string) (sessionID string, index int, err error) {
	rest, ok := strings.CutPrefix(data, selectUserPrefix)
	if !ok {
		return "", 0, fmt.Errorf("unexpected callback data %q", data)
	}
	sep := strings.LastIndexByte(rest, ':')
	if sep <= 0 {
		return "", 0, fmt.Errorf("malformed callback data %q", data)
	}
	index, err = strconv.Atoi(rest[sep+1:])
	if err != nil || index < 0 {
		return "", 0, fmt.Errorf("malformed callback index in %q", data)
	}
	return rest[:sep], index, nil
}

// commandArgs returns the text after the command word.
func commandArgs(text string) string {
	_, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(args)
}

// isTextDocument accepts .txt files and text/* uploads.
func isTextDocument(doc *models.Document) bool {
	if strings.HasSuffix(strings.ToLower(doc.FileName), ".txt") {
		return true
	}
	return strings.HasPrefix(doc.MimeType, "text/")
}
