package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/chatlens/internal/analysis"
	"github.com/edgard/chatlens/internal/report"
	"github.com/edgard/chatlens/internal/session"
)

// renderFunc produces the reply sections for the session's selected user.
type renderFunc func(ctx context.Context, deps HandlerDeps, sess session.Session) ([]string, error)

// analysisHandler answers a read-only analysis command about the selected user.
type analysisHandler struct {
	deps    HandlerDeps
	command string
	render  renderFunc
}

func newAnalysisHandler(deps HandlerDeps, command string, render renderFunc) bot.HandlerFunc {
	return analysisHandler{deps: deps, command: command, render: render}.Handle
}

func (h analysisHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", h.command)
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess, err := h.deps.Sessions.Get(chatID)
	if err != nil {
		log.WarnContext(ctx, "No session for analysis command", "chat_id", chatID)
		return
	}

	log.InfoContext(ctx, "Handling analysis command", "chat_id", chatID, "user", sess.SelectedUser)

	sections, err := h.render(ctx, h.deps, sess)
	if err != nil {
		log.ErrorContext(ctx, "Failed to build analysis reply", "error", err, "chat_id", chatID)
		sections = []string{h.deps.Config.Messages.GeneralError}
	}
	for _, section := range sections {
		if err := sendText(ctx, b, chatID, section); err != nil {
			log.ErrorContext(ctx, "Failed to send analysis reply", "error", err, "chat_id", chatID)
			return
		}
	}
}

// NewStatsHandler returns a handler for the /stats command.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return newAnalysisHandler(deps, "stats", func(_ context.Context, d HandlerDeps, s session.Session) ([]string, error) {
		stats := d.Pipeline.Analyzer.FetchStats(s.SelectedUser, s.Table)
		return []string{report.Stats(s.SelectedUser, stats)}, nil
	})
}

// NewTimelineHandler returns a handler for the /timeline command.
func NewTimelineHandler(deps HandlerDeps) bot.HandlerFunc {
	return newAnalysisHandler(deps, "timeline", func(_ context.Context, d HandlerDeps, s session.Session) ([]string, error) {
		a := d.Pipeline.Analyzer
		return []string{
			report.MonthlyTimeline(a.MonthlyTimeline(s.SelectedUser, s.Table)),
			report.DailyTimeline(a.DailyTimeline(s.SelectedUser, s.Table), d.Config.Telegram.DailyTimelineDays),
		}, nil
	})
}

// NewActivityHandler returns a handler for the /activity command.
func NewActivityHandler(deps HandlerDeps) bot.HandlerFunc {
	return newAnalysisHandler(deps, "activity", func(_ context.Context, d HandlerDeps, s session.Session) ([]string, error) {
		a := d.Pipeline.Analyzer
		return []string{
			report.Counts("Most busy days", a.WeekActivityMap(s.SelectedUser, s.Table)),
			report.Counts("Most busy months", a.MonthActivityMap(s.SelectedUser, s.Table)),
			report.Heatmap(a.ActivityHeatmap(s.SelectedUser, s.Table)),
		}, nil
	})
}

// NewBusyHandler returns a handler for the /busy command. The ranking is only
// meaningful for the whole group.
func NewBusyHandler(deps HandlerDeps) bot.HandlerFunc {
	return newAnalysisHandler(deps, "busy", func(_ context.Context, d HandlerDeps, s session.Session) ([]string, error) {
		a := d.Pipeline.Analyzer
		if s.SelectedUser != a.OverallLabel() {
			return []string{d.Config.Messages.BusyOverallOnly}, nil
		}
		return []string{report.BusyUsers(a.MostBusyUsers(s.SelectedUser, s.Table))}, nil
	})
}

// NewWordsHandler returns a handler for the /words command.
func NewWordsHandler(deps HandlerDeps) bot.HandlerFunc {
	return newAnalysisHandler(deps, "words", func(_ context.Context, d HandlerDeps, s session.Session) ([]string, error) {
		return []string{report.Words(d.Pipeline.Analyzer.MostCommonWords(s.SelectedUser, s.Table))}, nil
	})
}

// NewEmojiHandler returns a handler for the /emoji command.
func NewEmojiHandler(deps HandlerDeps) bot.HandlerFunc {
	return newAnalysisHandler(deps, "emoji", func(_ context.Context, d HandlerDeps, s session.Session) ([]string, error) {
		a := d.Pipeline.Analyzer
		counts := a.EmojiCounts(s.SelectedUser, s.Table)
		return []string{report.Emojis(counts, a.EmojiShares(counts))}, nil
	})
}

// NewReportHandler returns a handler for the /report command.
func NewReportHandler(deps HandlerDeps) bot.HandlerFunc {
	return newAnalysisHandler(deps, "report", func(ctx context.Context, d HandlerDeps, s session.Session) ([]string, error) {
		r, err := d.Pipeline.Analyzer.Report(ctx, s.SelectedUser, s.Table, analysis.ReportOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to build report: %w", err)
		}
		return report.Sections(r, d.Config.Telegram.DailyTimelineDays), nil
	})
}
