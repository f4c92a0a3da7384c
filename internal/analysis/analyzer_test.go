package analysis_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/edgard/chatlens/internal/analysis"
	"github.com/edgard/chatlens/internal/chatexport"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parse(t *testing.T, lines ...string) *chatexport.Table {
	t.Helper()
	p, err := chatexport.NewParser(chatexport.Options{Logger: discardLogger()})
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	return p.Parse(strings.Join(lines, "\n"))
}

func newAnalyzer() *analysis.Analyzer {
	return analysis.New(analysis.Options{Logger: discardLogger()})
}

// groupChat spans two months and four weekdays.
func groupChat(t *testing.T) *chatexport.Table {
	return parse(t,
		"30/01/23, 23:30 - Alice: late night pizza",
		"30/01/23, 00:15 - Bob: check https://example.com/menu",
		"01/02/23, 10:00 - Alice: Pizza again tonight",
		"01/02/23, 10:05 - Alice: <Media omitted>",
		"01/02/23, 10:06 - Alice added Carol",
		"01/02/23, 10:07 - Carol: hi all",
		"05/02/23, 09:00 - Bob: pizza is great",
	)
}

func TestFetchStats_Scenario(t *testing.T) {
	t.Parallel()

	table := parse(t, "01/02/23, 10:00 - Alice: Hello there", "01/02/23, 10:01 - Bob: <Media omitted>")
	got := newAnalyzer().FetchStats("Overall", table)
	want := analysis.Stats{Messages: 2, Words: 2, Media: 1, Links: 0}
	if got != want {
		t.Errorf("FetchStats() = %+v, want %+v", got, want)
	}
}

func TestFetchStats_FilterAndLinks(t *testing.T) {
	t.Parallel()

	a := newAnalyzer()
	table := groupChat(t)

	tests := []struct {
		user string
		want analysis.Stats
	}{
		{user: "Overall", want: analysis.Stats{Messages: 7, Words: 16, Media: 1, Links: 1}},
		{user: "Alice", want: analysis.Stats{Messages: 3, Words: 6, Media: 1, Links: 0}},
		{user: "Bob", want: analysis.Stats{Messages: 2, Words: 5, Media: 0, Links: 1}},
		{user: "Nobody", want: analysis.Stats{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.user, func(t *testing.T) {
			t.Parallel()
			if got := a.FetchStats(tt.user, table); got != tt.want {
				t.Errorf("FetchStats(%q) = %+v, want %+v", tt.user, got, tt.want)
			}
		})
	}
}

func TestFetchStats_EmptyTable(t *testing.T) {
	t.Parallel()

	a := newAnalyzer()
	if got := a.FetchStats("Overall", nil); got != (analysis.Stats{}) {
		t.Errorf("FetchStats(nil) = %+v, want zero", got)
	}
	if got := a.MonthlyTimeline("Overall", nil); got == nil || len(got) != 0 {
		t.Errorf("MonthlyTimeline(nil) = %#v, want empty slice", got)
	}
	if got := a.ActivityHeatmap("Overall", nil); len(got.Days) != 0 || len(got.Cells) != 0 {
		t.Errorf("ActivityHeatmap(nil) = %+v, want empty", got)
	}
	if got := a.MostBusyUsers("Overall", nil); len(got.Top) != 0 || len(got.Shares) != 0 {
		t.Errorf("MostBusyUsers(nil) = %+v, want empty", got)
	}
}

func TestAggregations_NoRecords(t *testing.T) {
	t.Parallel()

	a := newAnalyzer()
	prose := parse(t,
		"Dear diary, nothing here looks like a chat export.",
		"Not even with a date: 01/02/23 somewhere in the middle \U0001F600",
	)
	if prose.Len() != 0 {
		t.Fatalf("prose parsed into %d records, want 0", prose.Len())
	}

	tables := []struct {
		name  string
		table *chatexport.Table
		user  string
	}{
		{name: "prose overall", table: prose, user: "Overall"},
		{name: "prose absent user", table: prose, user: "Nobody"},
		{name: "chat absent user", table: groupChat(t), user: "Nobody"},
		{name: "nil table", table: nil, user: "Overall"},
	}
	for _, tt := range tables {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := a.FetchStats(tt.user, tt.table); got != (analysis.Stats{}) {
				t.Errorf("FetchStats() = %+v, want zero", got)
			}
			if got := a.MonthlyTimeline(tt.user, tt.table); len(got) != 0 {
				t.Errorf("MonthlyTimeline() = %+v, want empty", got)
			}
			if got := a.DailyTimeline(tt.user, tt.table); len(got) != 0 {
				t.Errorf("DailyTimeline() = %+v, want empty", got)
			}
			if got := a.WeekActivityMap(tt.user, tt.table); len(got) != 0 {
				t.Errorf("WeekActivityMap() = %+v, want empty", got)
			}
			if got := a.MonthActivityMap(tt.user, tt.table); len(got) != 0 {
				t.Errorf("MonthActivityMap() = %+v, want empty", got)
			}
			if got := a.ActivityHeatmap(tt.user, tt.table); len(got.Days) != 0 || len(got.Periods) != 0 || len(got.Cells) != 0 {
				t.Errorf("ActivityHeatmap() = %+v, want empty", got)
			}
			if got := a.MostBusyUsers(tt.user, tt.table); len(got.Top) != 0 || len(got.Shares) != 0 {
				t.Errorf("MostBusyUsers() = %+v, want empty", got)
			}
			if got := a.MostCommonWords(tt.user, tt.table); len(got) != 0 {
				t.Errorf("MostCommonWords() = %+v, want empty", got)
			}
			emojis := a.EmojiCounts(tt.user, tt.table)
			if len(emojis) != 0 {
				t.Errorf("EmojiCounts() = %+v, want empty", emojis)
			}
			if got := a.EmojiShares(emojis); len(got) != 0 {
				t.Errorf("EmojiShares() = %+v, want empty", got)
			}

			layout, err := a.WordCloud(tt.user, tt.table)
			if err != nil || layout == nil || len(layout.Words) != 0 {
				t.Errorf("WordCloud() = %+v, %v; want an empty layout", layout, err)
			}

			rep, err := a.Report(context.Background(), tt.user, tt.table, analysis.ReportOptions{WordCloud: true})
			if err != nil {
				t.Fatalf("Report() error = %v", err)
			}
			if rep.Stats != (analysis.Stats{}) || len(rep.CommonWords) != 0 || len(rep.Emojis) != 0 {
				t.Errorf("Report() = %+v, want zero values", rep)
			}
		})
	}
}

func TestReport_Idempotent(t *testing.T) {
	t.Parallel()

	a := newAnalyzer()
	table := groupChat(t)

	for _, user := range a.UserOptions(table) {
		first, err := a.Report(context.Background(), user, table, analysis.ReportOptions{WordCloud: true})
		if err != nil {
			t.Fatalf("Report(%q) error = %v", user, err)
		}
		second, err := a.Report(context.Background(), user, table, analysis.ReportOptions{WordCloud: true})
		if err != nil {
			t.Fatalf("Report(%q) second run error = %v", user, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Report(%q) differs between runs:\n%+v\n%+v", user, first, second)
		}
	}

	if e1, e2 := a.EmojiCounts("Overall", table), a.EmojiCounts("Overall", table); !reflect.DeepEqual(e1, e2) {
		t.Errorf("EmojiCounts() differs between runs: %v vs %v", e1, e2)
	}
}

func TestMonthlyTimeline(t *testing.T) {
	t.Parallel()

	a := newAnalyzer()
	table := groupChat(t)
	got := a.MonthlyTimeline("Overall", table)
	want := []analysis.MonthlyPoint{
		{Year: 2023, MonthNum: 1, Label: "January-2023", Messages: 2},
		{Year: 2023, MonthNum: 2, Label: "February-2023", Messages: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MonthlyTimeline() = %+v, want %+v", got, want)
	}

	for _, user := range a.UserOptions(table) {
		sum := 0
		for _, p := range a.MonthlyTimeline(user, table) {
			sum += p.Messages
		}
		if stats := a.FetchStats(user, table); sum != stats.Messages {
			t.Errorf("user %q: timeline sum %d != messages %d", user, sum, stats.Messages)
		}
	}
}

func TestDailyTimeline(t *testing.T) {
	t.Parallel()

	got := newAnalyzer().DailyTimeline("Overall", groupChat(t))
	if len(got) != 3 {
		t.Fatalf("DailyTimeline() has %d points, want 3", len(got))
	}
	wantDays := []int{30, 1, 5}
	wantCounts := []int{2, 4, 1}
	for i, p := range got {
		if p.Date.Day() != wantDays[i] || p.Messages != wantCounts[i] {
			t.Errorf("point %d = %v/%d, want day %d/%d", i, p.Date, p.Messages, wantDays[i], wantCounts[i])
		}
	}
}

func TestActivityMaps(t *testing.T) {
	t.Parallel()

	a := newAnalyzer()
	table := groupChat(t)

	week := a.WeekActivityMap("Overall", table)
	wantWeek := []analysis.Count{{Label: "Wednesday", Messages: 4}, {Label: "Monday", Messages: 2}, {Label: "Sunday", Messages: 1}}
	if !reflect.DeepEqual(week, wantWeek) {
		t.Errorf("WeekActivityMap() = %+v, want %+v", week, wantWeek)
	}

	month := a.MonthActivityMap("Bob", table)
	wantMonth := []analysis.Count{{Label: "January", Messages: 1}, {Label: "February", Messages: 1}}
	if !reflect.DeepEqual(month, wantMonth) {
		t.Errorf("MonthActivityMap(Bob) = %+v, want ties in first-encounter order %+v", month, wantMonth)
	}
}

func TestActivityHeatmap(t *testing.T) {
	t.Parallel()

	h := newAnalyzer().ActivityHeatmap("Overall", groupChat(t))

	wantDays := []string{"Monday", "Wednesday", "Sunday"}
	wantPeriods := []string{"00-1", "9-10", "10-11", "23-00"}
	if !reflect.DeepEqual(h.Days, wantDays) {
		t.Errorf("Days = %v, want %v", h.Days, wantDays)
	}
	if !reflect.DeepEqual(h.Periods, wantPeriods) {
		t.Errorf("Periods = %v, want %v", h.Periods, wantPeriods)
	}

	cells := map[[2]string]int{
		{"Monday", "00-1"}:     1,
		{"Monday", "23-00"}:    1,
		{"Monday", "10-11"}:    0,
		{"Wednesday", "10-11"}: 4,
		{"Sunday", "9-10"}:     1,
		{"Sunday", "23-00"}:    0,
		{"Friday", "10-11"}:    0,
	}
	for k, want := range cells {
		if got := h.At(k[0], k[1]); got != want {
			t.Errorf("At(%s, %s) = %d, want %d", k[0], k[1], got, want)
		}
	}
	for i, row := range h.Cells {
		if len(row) != len(h.Periods) {
			t.Errorf("row %d has %d cells, want %d", i, len(row), len(h.Periods))
		}
	}
}

func TestMostBusyUsers(t *testing.T) {
	t.Parallel()

	table := groupChat(t)

	busy := newAnalyzer().MostBusyUsers("Overall", table)
	wantTop := []analysis.Count{{Label: "Alice", Messages: 3}, {Label: "Bob", Messages: 2}, {Label: "Carol", Messages: 1}}
	if !reflect.DeepEqual(busy.Top, wantTop) {
		t.Errorf("Top = %+v, want %+v", busy.Top, wantTop)
	}
	wantShares := []analysis.Share{{Label: "Alice", Percent: 50}, {Label: "Bob", Percent: 33.33}, {Label: "Carol", Percent: 16.67}}
	if !reflect.DeepEqual(busy.Shares, wantShares) {
		t.Errorf("Shares = %+v, want %+v", busy.Shares, wantShares)
	}
	sum := 0.0
	for _, s := range busy.Shares {
		sum += s.Percent
	}
	if math.Abs(sum-100) > 0.05 {
		t.Errorf("shares sum to %.2f, want 100 when every sender is covered", sum)
	}

	limited := analysis.New(analysis.Options{TopUsers: 2, Logger: discardLogger()}).MostBusyUsers("Overall", table)
	if len(limited.Top) != 2 || len(limited.Shares) != 2 {
		t.Fatalf("TopUsers=2 gave %d top, %d shares", len(limited.Top), len(limited.Shares))
	}
	if limited.Shares[0].Percent+limited.Shares[1].Percent > 100 {
		t.Error("partial shares exceed 100")
	}
}

func TestMostCommonWords(t *testing.T) {
	t.Parallel()

	a := newAnalyzer()
	table := groupChat(t)

	got := a.MostCommonWords("Overall", table)
	if len(got) == 0 || got[0] != (analysis.WordCount{Word: "pizza", Count: 3}) {
		t.Fatalf("MostCommonWords()[0] = %+v, want pizza x3", got)
	}
	for _, w := range got {
		switch w.Word {
		case "is", "added", "carol", "<media", "omitted>":
			t.Errorf("unexpected token %q", w.Word)
		}
	}

	bob := a.MostCommonWords("Bob", table)
	want := []analysis.WordCount{
		{Word: "check", Count: 1},
		{Word: "https://example.com/menu", Count: 1},
		{Word: "pizza", Count: 1},
		{Word: "great", Count: 1},
	}
	if !reflect.DeepEqual(bob, want) {
		t.Errorf("MostCommonWords(Bob) = %+v, want %+v", bob, want)
	}
}

func TestMostCommonWords_TopAndStopWords(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, "01/02/23, 10:00 - Alice: w"+strings.Repeat("x", i+1))
	}
	table := parse(t, lines...)
	if got := newAnalyzer().MostCommonWords("Overall", table); len(got) != analysis.DefaultTopWords {
		t.Errorf("len = %d, want %d", len(got), analysis.DefaultTopWords)
	}

	open := analysis.New(analysis.Options{StopWords: analysis.StopWords{}, MinWordLength: 1, Logger: discardLogger()})
	got := open.MostCommonWords("Overall", parse(t, "01/02/23, 10:00 - Alice: a is a"))
	want := []analysis.WordCount{{Word: "a", Count: 2}, {Word: "is", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MostCommonWords() without stop words = %+v, want %+v", got, want)
	}
}

func TestEmojiCounts(t *testing.T) {
	t.Parallel()

	a := newAnalyzer()
	table := parse(t,
		"01/02/23, 10:00 - Alice: \U0001F600 hi \U0001F600 \U0001F44D",
		"01/02/23, 10:01 - Bob: no emoji here 123 #tag",
	)

	got := a.EmojiCounts("Overall", table)
	want := []analysis.EmojiCount{{Emoji: "\U0001F600", Count: 2}, {Emoji: "\U0001F44D", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EmojiCounts() = %+v, want %+v", got, want)
	}
	total := 0
	for _, e := range got {
		total += e.Count
	}
	if total != 3 {
		t.Errorf("total emoji = %d, want 3", total)
	}
	if got := a.EmojiCounts("Bob", table); len(got) != 0 {
		t.Errorf("EmojiCounts(Bob) = %+v, want empty", got)
	}
}

func TestEmojiCounts_InjectedPredicate(t *testing.T) {
	t.Parallel()

	a := analysis.New(analysis.Options{
		IsEmoji: func(c string) bool { return c == "*" },
		Logger:  discardLogger(),
	})
	got := a.EmojiCounts("Overall", parse(t, "01/02/23, 10:00 - Alice: * x * y *"))
	if len(got) != 1 || got[0].Count != 3 {
		t.Errorf("EmojiCounts() = %+v, want * x3", got)
	}
}

func TestEmojiShares(t *testing.T) {
	t.Parallel()

	counts := []analysis.EmojiCount{
		{Emoji: "a", Count: 5}, {Emoji: "b", Count: 2}, {Emoji: "c", Count: 1},
		{Emoji: "d", Count: 1}, {Emoji: "e", Count: 1}, {Emoji: "f", Count: 0},
	}
	shares := newAnalyzer().EmojiShares(counts)
	if len(shares) != 5 {
		t.Fatalf("len = %d, want 5", len(shares))
	}
	if shares[0].Percent != 50 || shares[1].Percent != 20 {
		t.Errorf("shares = %+v", shares)
	}
	if got := newAnalyzer().EmojiShares(nil); len(got) != 0 {
		t.Errorf("EmojiShares(nil) = %+v", got)
	}
}

func TestUserOptions(t *testing.T) {
	t.Parallel()

	a := newAnalyzer()
	table := groupChat(t)
	got := a.UserOptions(table)
	want := []string{"Overall", "Alice", "Bob", "Carol"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UserOptions() = %v, want %v", got, want)
	}
	if !a.HasUser("Carol", table) || a.HasUser("Nobody", table) || a.HasUser(chatexport.DefaultSentinelSender, table) {
		t.Error("HasUser() gave unexpected results")
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	a := newAnalyzer()
	table := groupChat(t)

	overall, err := a.Report(context.Background(), "Overall", table, analysis.ReportOptions{WordCloud: true})
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if overall.Stats != a.FetchStats("Overall", table) {
		t.Errorf("Stats = %+v", overall.Stats)
	}
	if overall.BusyUsers == nil {
		t.Error("overall report should rank busy users")
	}
	if overall.WordCloud == nil || len(overall.WordCloud.Words) == 0 {
		t.Error("overall report should include a word cloud")
	}

	alice, err := a.Report(context.Background(), "Alice", table, analysis.ReportOptions{})
	if err != nil {
		t.Fatalf("Report(Alice) error = %v", err)
	}
	if alice.BusyUsers != nil || alice.WordCloud != nil {
		t.Error("user report should omit busy users and the word cloud")
	}
	if !reflect.DeepEqual(alice.CommonWords, a.MostCommonWords("Alice", table)) {
		t.Errorf("CommonWords = %+v", alice.CommonWords)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Report(ctx, "Overall", table, analysis.ReportOptions{}); err == nil {
		t.Error("Report() with cancelled context should fail")
	}
}

func TestReadStopWords(t *testing.T) {
	t.Parallel()

	words, err := analysis.ReadStopWords(strings.NewReader("# comment\nThe and\n\n  hai  \n"))
	if err != nil {
		t.Fatalf("ReadStopWords() error = %v", err)
	}
	for _, w := range []string{"the", "and", "hai"} {
		if !words.Contains(w) {
			t.Errorf("missing %q", w)
		}
	}
	if words.Contains("comment") || len(words) != 3 {
		t.Errorf("words = %v", words)
	}

	def := analysis.DefaultStopWords()
	for _, w := range []string{"the", "hai", "kya"} {
		if !def.Contains(w) {
			t.Errorf("default list missing %q", w)
		}
	}
}
