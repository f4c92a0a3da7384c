package analysis

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edgard/chatlens/internal/chatexport"
	"github.com/edgard/chatlens/internal/wordcloud"
)

// Report groups every aggregation for one selected user.
type Report struct {
	User        string         `json:"user"`
	Stats       Stats          `json:"stats"`
	Monthly     []MonthlyPoint `json:"monthly_timeline"`
	Daily       []DailyPoint   `json:"daily_timeline"`
	Weekdays    []Count        `json:"week_activity"`
	Months      []Count        `json:"month_activity"`
	Heatmap     Heatmap        `json:"activity_heatmap"`
	BusyUsers   *BusyUsers     `json:"busy_users,omitempty"`
	CommonWords []WordCount    `json:"common_words"`
	Emojis      []EmojiCount   `json:"emojis"`
	EmojiShares []Share        `json:"emoji_shares"`

	WordCloud *wordcloud.Layout `json:"-"`
}

// ReportOptions selects the optional parts of a report.
type ReportOptions struct {
	WordCloud bool
}

// Report runs the aggregations concurrently over the shared immutable
// table. Busy users are only ranked for the overall selection.
func (a *Analyzer) Report(ctx context.Context, selectedUser string, t *chatexport.Table, opts ReportOptions) (*Report, error) {
	start := time.Now()
	r := &Report{User: selectedUser}
	g, ctx := errgroup.WithContext(ctx)

	run := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	run(func() { r.Stats = a.FetchStats(selectedUser, t) })
	run(func() { r.Monthly = a.MonthlyTimeline(selectedUser, t) })
	run(func() { r.Daily = a.DailyTimeline(selectedUser, t) })
	run(func() { r.Weekdays = a.WeekActivityMap(selectedUser, t) })
	run(func() { r.Months = a.MonthActivityMap(selectedUser, t) })
	run(func() { r.Heatmap = a.ActivityHeatmap(selectedUser, t) })
	run(func() { r.CommonWords = a.MostCommonWords(selectedUser, t) })
	run(func() {
		r.Emojis = a.EmojiCounts(selectedUser, t)
		r.EmojiShares = a.EmojiShares(r.Emojis)
	})
	if selectedUser == a.opts.OverallLabel {
		run(func() {
			busy := a.MostBusyUsers(selectedUser, t)
			r.BusyUsers = &busy
		})
	}
	if opts.WordCloud {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			layout, err := a.WordCloud(selectedUser, t)
			if err != nil {
				return fmt.Errorf("failed to build word cloud: %w", err)
			}
			r.WordCloud = layout
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Debug("report computed",
		"user", selectedUser,
		"messages", r.Stats.Messages,
		"duration_ms", time.Since(start).Milliseconds())
	return r, nil
}
