// Package tasks implements the scheduled tasks of the chatlens bot.
package tasks

import (
	"log/slog"

	"github.com/edgard/chatlens/internal/config"
	"github.com/edgard/chatlens/internal/session"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Sessions *session.Store
	Config   *config.Config
}
