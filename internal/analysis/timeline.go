package analysis

import (
	"sort"
	"strconv"
	"time"

	"github.com/edgard/chatlens/internal/chatexport"
)

// MonthlyPoint is the message count of one calendar month.
type MonthlyPoint struct {
	Year     int    `json:"year"`
	MonthNum int    `json:"month_num"`
	Label    string `json:"label"`
	Messages int    `json:"messages"`
}

// DailyPoint is the message count of one calendar date.
type DailyPoint struct {
	Date     time.Time `json:"date"`
	Messages int       `json:"messages"`
}

// MonthlyTimeline counts messages per (year, month) in calendar order,
// labelled "Month-Year".
func (a *Analyzer) MonthlyTimeline(selectedUser string, t *chatexport.Table) []MonthlyPoint {
	index := make(map[int]int)
	points := []MonthlyPoint{}
	for _, m := range a.Filter(selectedUser, t).Messages() {
		key := m.Year*100 + m.MonthNum
		i, ok := index[key]
		if !ok {
			i = len(points)
			index[key] = i
			points = append(points, MonthlyPoint{
				Year:     m.Year,
				MonthNum: m.MonthNum,
				Label:    m.Month + "-" + strconv.Itoa(m.Year),
			})
		}
		points[i].Messages++
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].MonthNum < points[j].MonthNum
	})
	return points
}

// DailyTimeline counts messages per calendar date in ascending order.
func (a *Analyzer) DailyTimeline(selectedUser string, t *chatexport.Table) []DailyPoint {
	index := make(map[time.Time]int)
	points := []DailyPoint{}
	for _, m := range a.Filter(selectedUser, t).Messages() {
		d := m.Date()
		i, ok := index[d]
		if !ok {
			i = len(points)
			index[d] = i
			points = append(points, DailyPoint{Date: d})
		}
		points[i].Messages++
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}
