package handlers

import (
	"log/slog"
	"net/http"

	"github.com/edgard/chatlens/internal/config"
	"github.com/edgard/chatlens/internal/pipeline"
	"github.com/edgard/chatlens/internal/session"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Pipeline *pipeline.Pipeline
	Sessions *session.Store
	// HTTPClient downloads uploaded documents; nil means http.DefaultClient.
	HTTPClient *http.Client
	// TempDir holds SQLite files built for /export; empty means os.TempDir.
	TempDir string
}

func (d HandlerDeps) httpClient() *http.Client {
	if d.HTTPClient != nil {
		return d.HTTPClient
	}
	return http.DefaultClient
}
