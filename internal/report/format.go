// Package report renders analysis results as plain text for chat replies and
// terminal output.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/edgard/chatlens/internal/analysis"
)

// Stats renders the headline counts.
func Stats(user string, s analysis.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top statistics for %s\n", user)
	fmt.Fprintf(&b, "Total messages: %s\n", humanize.Comma(int64(s.Messages)))
	fmt.Fprintf(&b, "Total words: %s\n", humanize.Comma(int64(s.Words)))
	fmt.Fprintf(&b, "Media shared: %s\n", humanize.Comma(int64(s.Media)))
	fmt.Fprintf(&b, "Links shared: %s", humanize.Comma(int64(s.Links)))
	return b.String()
}

// MonthlyTimeline renders one line per month.
func MonthlyTimeline(points []analysis.MonthlyPoint) string {
	if len(points) == 0 {
		return "Monthly timeline: no messages"
	}
	var b strings.Builder
	b.WriteString("Monthly timeline")
	for _, p := range points {
		fmt.Fprintf(&b, "\n%-16s %s", p.Label, humanize.Comma(int64(p.Messages)))
	}
	return b.String()
}

// DailyTimeline renders the most recent limit days; limit <= 0 renders all.
func DailyTimeline(points []analysis.DailyPoint, limit int) string {
	if len(points) == 0 {
		return "Daily timeline: no messages"
	}
	var b strings.Builder
	b.WriteString("Daily timeline")
	if limit > 0 && len(points) > limit {
		fmt.Fprintf(&b, " (last %d of %d days)", limit, len(points))
		points = points[len(points)-limit:]
	}
	for _, p := range points {
		fmt.Fprintf(&b, "\n%s %s", p.Date.Format("2006-01-02"), humanize.Comma(int64(p.Messages)))
	}
	return b.String()
}

// Counts renders a titled label/count list.
func Counts(title string, counts []analysis.Count) string {
	if len(counts) == 0 {
		return title + ": no messages"
	}
	var b strings.Builder
	b.WriteString(title)
	for _, c := range counts {
		fmt.Fprintf(&b, "\n%-10s %s", c.Label, humanize.Comma(int64(c.Messages)))
	}
	return b.String()
}

// Heatmap renders the weekday by period matrix as a fixed-width table.
func Heatmap(h analysis.Heatmap) string {
	if len(h.Days) == 0 {
		return "Weekly activity map: no messages"
	}
	var b strings.Builder
	b.WriteString("Weekly activity map\n")
	fmt.Fprintf(&b, "%-4s", "")
	for _, p := range h.Periods {
		fmt.Fprintf(&b, " %5s", p)
	}
	for i, d := range h.Days {
		fmt.Fprintf(&b, "\n%-4s", d[:3])
		for _, n := range h.Cells[i] {
			fmt.Fprintf(&b, " %5d", n)
		}
	}
	return b.String()
}

// BusyUsers renders the ranking with percentage shares.
func BusyUsers(busy analysis.BusyUsers) string {
	if len(busy.Top) == 0 {
		return "Most busy users: no messages"
	}
	var b strings.Builder
	b.WriteString("Most busy users")
	for i, c := range busy.Top {
		fmt.Fprintf(&b, "\n%d. %s: %s (%.2f%%)", i+1, c.Label, humanize.Comma(int64(c.Messages)), busy.Shares[i].Percent)
	}
	return b.String()
}

// Words renders the most common words.
func Words(words []analysis.WordCount) string {
	if len(words) == 0 {
		return "Most common words: none"
	}
	var b strings.Builder
	b.WriteString("Most common words")
	for i, w := range words {
		fmt.Fprintf(&b, "\n%d. %s %s", i+1, w.Word, humanize.Comma(int64(w.Count)))
	}
	return b.String()
}

// Emojis renders the emoji table and the share of the leading emojis.
func Emojis(counts []analysis.EmojiCount, shares []analysis.Share) string {
	if len(counts) == 0 {
		return "Emoji analysis: no emojis"
	}
	var b strings.Builder
	b.WriteString("Emoji analysis")
	for _, e := range counts {
		fmt.Fprintf(&b, "\n%s %s", e.Emoji, humanize.Comma(int64(e.Count)))
	}
	if len(shares) > 0 {
		b.WriteString("\nTop share:")
		for _, s := range shares {
			fmt.Fprintf(&b, " %s %.2f%%", s.Label, s.Percent)
		}
	}
	return b.String()
}

// Sections renders a full report as separate blocks, in display order.
// dailyLimit bounds the daily timeline.
func Sections(r *analysis.Report, dailyLimit int) []string {
	sections := []string{
		Stats(r.User, r.Stats),
		MonthlyTimeline(r.Monthly),
		DailyTimeline(r.Daily, dailyLimit),
		Counts("Most busy days", r.Weekdays),
		Counts("Most busy months", r.Months),
		Heatmap(r.Heatmap),
	}
	if r.BusyUsers != nil {
		sections = append(sections, BusyUsers(*r.BusyUsers))
	}
	return append(sections, Words(r.CommonWords), Emojis(r.Emojis, r.EmojiShares))
}

// Text renders a full report as one document.
func Text(r *analysis.Report) string {
	return strings.Join(Sections(r, 0), "\n\n") + "\n"
}
