package analysis

import (
	"sort"
	"time"

	"github.com/edgard/chatlens/internal/chatexport"
)

// Count is a label with its message count.
type Count struct {
	Label    string `json:"label"`
	Messages int    `json:"messages"`
}

// Heatmap is a weekday by hour-period matrix of message counts.
type Heatmap struct {
	Days    []string `json:"days"`
	Periods []string `json:"periods"`
	Cells   [][]int  `json:"cells"`
}

// At returns the count for a day and period, 0 when either is absent.
func (h Heatmap) At(day, period string) int {
	for i, d := range h.Days {
		if d != day {
			continue
		}
		for j, p := range h.Periods {
			if p == period {
				return h.Cells[i][j]
			}
		}
	}
	return 0
}

var weekdayRank = func() map[string]int {
	rank := make(map[string]int, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		rank[wd.String()] = (int(wd) + 6) % 7
	}
	return rank
}()

// WeekActivityMap counts messages per weekday name, busiest first.
func (a *Analyzer) WeekActivityMap(selectedUser string, t *chatexport.Table) []Count {
	return valueCounts(a.Filter(selectedUser, t).Messages(), func(m chatexport.Message) string { return m.DayName })
}

// MonthActivityMap counts messages per month name, busiest first.
func (a *Analyzer) MonthActivityMap(selectedUser string, t *chatexport.Table) []Count {
	return valueCounts(a.Filter(selectedUser, t).Messages(), func(m chatexport.Message) string { return m.Month })
}

// ActivityHeatmap builds the weekday by period matrix. Rows are the weekdays
// present, Monday first; columns are the periods present by starting hour.
func (a *Analyzer) ActivityHeatmap(selectedUser string, t *chatexport.Table) Heatmap {
	counts := make(map[[2]string]int)
	days := make(map[string]struct{})
	periods := make(map[string]struct{})
	for _, m := range a.Filter(selectedUser, t).Messages() {
		counts[[2]string{m.DayName, m.Period}]++
		days[m.DayName] = struct{}{}
		periods[m.Period] = struct{}{}
	}

	h := Heatmap{Days: []string{}, Periods: []string{}, Cells: [][]int{}}
	for d := range days {
		h.Days = append(h.Days, d)
	}
	for p := range periods {
		h.Periods = append(h.Periods, p)
	}
	sort.Slice(h.Days, func(i, j int) bool { return weekdayRank[h.Days[i]] < weekdayRank[h.Days[j]] })
	sort.Slice(h.Periods, func(i, j int) bool {
		return chatexport.PeriodStart(h.Periods[i]) < chatexport.PeriodStart(h.Periods[j])
	})

	for _, d := range h.Days {
		row := make([]int, len(h.Periods))
		for j, p := range h.Periods {
			row[j] = counts[[2]string{d, p}]
		}
		h.Cells = append(h.Cells, row)
	}
	return h
}

// valueCounts tallies keys and orders them by count descending, ties in
// first-encounter order.
func valueCounts(messages []chatexport.Message, key func(chatexport.Message) string) []Count {
	index := make(map[string]int)
	out := []Count{}
	for _, m := range messages {
		k := key(m)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Count{Label: k})
		}
		out[i].Messages++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Messages > out[j].Messages })
	return out
}
