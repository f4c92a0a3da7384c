package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatlens/internal/bot/handlers"
	"github.com/edgard/chatlens/internal/config"
	"github.com/edgard/chatlens/internal/pipeline"
	"github.com/edgard/chatlens/internal/session"
)

const (
	testToken  = "123456:test-token"
	testChatID = int64(42)
	chatExport = "30/01/23, 23:30 - Alice: late night pizza\n" +
		"01/02/23, 10:00 - Bob: pizza again\n" +
		"01/02/23, 10:05 - Alice: <Media omitted>\n"
)

type apiCall struct {
	Method string
	Form   map[string]string
}

// fakeAPI records Bot API calls and serves uploaded files.
type fakeAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/file/bot"+testToken+"/") {
		_, _ = io.WriteString(w, chatExport)
		return
	}

	method := r.URL.Path[strings.LastIndexByte(r.URL.Path, '/')+1:]
	form := make(map[string]string)
	if err := r.ParseMultipartForm(32 << 20); err == nil {
		for k, v := range r.MultipartForm.Value {
			form[k] = v[0]
		}
		for k := range r.MultipartForm.File {
			form[k] = "<file>"
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Method: method, Form: form})
	f.mu.Unlock()

	var result any = true
	switch method {
	case "getFile":
		result = map[string]any{"file_id": "doc1", "file_unique_id": "u1", "file_path": "documents/chat.txt"}
	case "sendMessage", "sendPhoto", "sendDocument":
		result = map[string]any{"message_id": 1, "date": 0, "chat": map[string]any{"id": testChatID, "type": "private"}}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
}

func (f *fakeAPI) take() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := f.calls
	f.calls = nil
	return calls
}

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	calls := f.take()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == "sendMessage" {
			return calls[i].Form["text"]
		}
	}
	t.Fatalf("no sendMessage call in %+v", calls)
	return ""
}

type harness struct {
	api      *fakeAPI
	bot      *tgbot.Bot
	deps     handlers.HandlerDeps
	registry map[string]handlers.RegisteredHandler
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b, err := tgbot.New(testToken, tgbot.WithServerURL(srv.URL), tgbot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("bot.New() error = %v", err)
	}

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := pipeline.New(cfg, cfg.Telegram.MaxUploadBytes, logger)
	if err != nil {
		t.Fatalf("pipeline.New() error = %v", err)
	}

	deps := handlers.HandlerDeps{
		Logger:     logger,
		Config:     cfg,
		Pipeline:   p,
		Sessions:   session.NewStore(),
		HTTPClient: srv.Client(),
		TempDir:    t.TempDir(),
	}
	return &harness{api: api, bot: b, deps: deps, registry: handlers.RegisterAllCommands(deps)}
}

// dispatch runs a registered handler with its middleware.
func (h *harness) dispatch(t *testing.T, name string, update *models.Update) {
	t.Helper()
	reg, ok := h.registry[name]
	if !ok {
		t.Fatalf("handler %q not registered", name)
	}
	handler := reg.Handler
	for i := len(reg.Middleware) - 1; i >= 0; i-- {
		handler = reg.Middleware[i](handler)
	}
	handler(context.Background(), h.bot, update)
}

func (h *harness) command(t *testing.T, text string) {
	t.Helper()
	name, _, _ := strings.Cut(text, " ")
	h.dispatch(t, name, &models.Update{Message: &models.Message{
		Text: text,
		Chat: models.Chat{ID: testChatID},
		From: &models.User{ID: 7},
	}})
}

func (h *harness) upload(t *testing.T, doc models.Document) {
	t.Helper()
	update := &models.Update{Message: &models.Message{Chat: models.Chat{ID: testChatID}, Document: &doc}}
	if !handlers.IsDocumentUpload(update) {
		t.Fatal("IsDocumentUpload() = false for document message")
	}
	h.dispatch(t, "upload", update)
}

func (h *harness) uploadExport(t *testing.T) session.Session {
	t.Helper()
	h.upload(t, models.Document{FileID: "doc1", FileName: "chat.txt", MimeType: "text/plain", FileSize: int64(len(chatExport))})
	sess, err := h.deps.Sessions.Get(testChatID)
	if err != nil {
		t.Fatalf("no session after upload: %v", err)
	}
	return sess
}

func TestUpload_CreatesSessionAndKeyboard(t *testing.T) {
	h := newHarness(t)
	sess := h.uploadExport(t)

	if sess.Table.Len() != 3 || sess.SelectedUser != "Overall" || sess.SourceName != "chat.txt" {
		t.Errorf("session = %d records, user %q, source %q", sess.Table.Len(), sess.SelectedUser, sess.SourceName)
	}
	if strings.Join(sess.Users, ",") != "Overall,Alice,Bob" {
		t.Errorf("session users = %v", sess.Users)
	}

	calls := h.api.take()
	var methods []string
	for _, c := range calls {
		methods = append(methods, c.Method)
	}
	if strings.Join(methods, ",") != "sendChatAction,getFile,sendMessage" {
		t.Fatalf("API calls = %v", methods)
	}
	loaded := calls[2].Form
	if !strings.HasPrefix(loaded["text"], "Loaded 3 messages from 2 users") {
		t.Errorf("loaded text = %q", loaded["text"])
	}
	if !strings.Contains(loaded["reply_markup"], "user:"+sess.ID+":1") {
		t.Errorf("reply_markup = %q, want callback for Alice", loaded["reply_markup"])
	}
}

func TestUpload_Rejections(t *testing.T) {
	h := newHarness(t)

	h.upload(t, models.Document{FileID: "img", FileName: "photo.jpg", MimeType: "image/jpeg", FileSize: 10})
	if got := h.api.lastText(t); got != h.deps.Config.Messages.NotText {
		t.Errorf("non-text reply = %q", got)
	}

	h.upload(t, models.Document{FileID: "big", FileName: "chat.txt", FileSize: h.deps.Config.Telegram.MaxUploadBytes + 1})
	if got := h.api.lastText(t); got != h.deps.Config.Messages.UploadTooLarge {
		t.Errorf("oversized reply = %q", got)
	}

	if h.deps.Sessions.Len() != 0 {
		t.Errorf("sessions = %d after rejected uploads, want 0", h.deps.Sessions.Len())
	}
}

func TestCommands_RequireSession(t *testing.T) {
	h := newHarness(t)

	for _, cmd := range []string{"/stats", "/users", "/wordcloud", "/export"} {
		h.command(t, cmd)
		if got := h.api.lastText(t); got != h.deps.Config.Messages.NoExport {
			t.Errorf("%s without upload replied %q", cmd, got)
		}
	}

	h.command(t, "/help")
	if got := h.api.lastText(t); !strings.Contains(got, "/wordcloud") {
		t.Errorf("/help reply = %q", got)
	}
}

func TestAnalysisCommands(t *testing.T) {
	h := newHarness(t)
	h.uploadExport(t)
	h.api.take()

	h.command(t, "/stats")
	if got := h.api.lastText(t); !strings.Contains(got, "Total messages: 3") || !strings.Contains(got, "Media shared: 1") {
		t.Errorf("/stats reply = %q", got)
	}

	h.command(t, "/busy")
	if got := h.api.lastText(t); !strings.Contains(got, "Alice") || !strings.Contains(got, "66.67") {
		t.Errorf("/busy reply = %q", got)
	}

	h.command(t, "/words")
	if got := h.api.lastText(t); !strings.Contains(got, "pizza") {
		t.Errorf("/words reply = %q", got)
	}

	h.command(t, "/report")
	calls := h.api.take()
	if len(calls) < 8 {
		t.Errorf("/report sent %d messages, want one per section", len(calls))
	}
}

func TestSelectUser_CommandAndCallback(t *testing.T) {
	h := newHarness(t)
	sess := h.uploadExport(t)
	h.api.take()

	h.command(t, "/user")
	if got := h.api.lastText(t); got != h.deps.Config.Messages.ProvideUser {
		t.Errorf("/user without name replied %q", got)
	}
	h.command(t, "/user Carol")
	if got := h.api.lastText(t); got != h.deps.Config.Messages.UnknownUser {
		t.Errorf("/user Carol replied %q", got)
	}

	h.command(t, "/user Bob")
	if got := h.api.lastText(t); got != "Analyzing: Bob" {
		t.Errorf("/user Bob replied %q", got)
	}
	h.command(t, "/busy")
	if got := h.api.lastText(t); got != h.deps.Config.Messages.BusyOverallOnly {
		t.Errorf("/busy for Bob replied %q", got)
	}

	press := func(data string) []apiCall {
		h.dispatch(t, "select_user", &models.Update{CallbackQuery: &models.CallbackQuery{
			ID:   "cb1",
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Type:    models.MaybeInaccessibleMessageTypeMessage,
				Message: &models.Message{Chat: models.Chat{ID: testChatID}},
			},
		}})
		return h.api.take()
	}

	calls := press("user:" + sess.ID + ":1")
	if len(calls) != 2 || calls[0].Method != "answerCallbackQuery" || calls[1].Form["text"] != "Analyzing: Alice" {
		t.Errorf("callback calls = %+v", calls)
	}
	if cur, _ := h.deps.Sessions.Get(testChatID); cur.SelectedUser != "Alice" {
		t.Errorf("selected user = %q, want Alice", cur.SelectedUser)
	}

	calls = press("user:stale-session:1")
	if len(calls) != 1 || calls[0].Form["text"] != h.deps.Config.Messages.SessionExpired {
		t.Errorf("stale callback calls = %+v", calls)
	}
}

func TestWordCloudAndExport(t *testing.T) {
	h := newHarness(t)
	h.uploadExport(t)
	h.api.take()

	h.command(t, "/wordcloud")
	calls := h.api.take()
	if len(calls) != 2 || calls[1].Method != "sendPhoto" || calls[1].Form["photo"] != "<file>" {
		t.Errorf("/wordcloud calls = %+v", calls)
	}

	h.command(t, "/export")
	calls = h.api.take()
	if len(calls) != 1 || calls[0].Method != "sendDocument" || calls[0].Form["document"] != "<file>" {
		t.Errorf("/export calls = %+v", calls)
	}
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	h.uploadExport(t)
	h.api.take()

	h.command(t, "/reset")
	if got := h.api.lastText(t); got != h.deps.Config.Messages.Reset {
		t.Errorf("/reset replied %q", got)
	}
	if _, err := h.deps.Sessions.Get(testChatID); err == nil {
		t.Error("session still present after /reset")
	}
}

func TestFallbackHandler(t *testing.T) {
	h := newHarness(t)
	fallback := handlers.NewFallbackHandler(h.deps)

	fallback(context.Background(), h.bot, &models.Update{Message: &models.Message{
		Text: "hello?",
		Chat: models.Chat{ID: testChatID, Type: models.ChatTypeGroup},
	}})
	if calls := h.api.take(); len(calls) != 0 {
		t.Errorf("group message triggered calls %+v", calls)
	}

	fallback(context.Background(), h.bot, &models.Update{Message: &models.Message{
		Text: "hello?",
		Chat: models.Chat{ID: testChatID, Type: models.ChatTypePrivate},
	}})
	if got := h.api.lastText(t); got != h.deps.Config.Messages.Help {
		t.Errorf("private message reply = %q", got)
	}
}
