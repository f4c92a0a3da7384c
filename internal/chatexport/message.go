// Package chatexport turns the plain-text export of a chat into an ordered,
// immutable table of message records.
package chatexport

import (
	"strconv"
	"time"
)

// DefaultSentinelSender is the sender recorded for system lines such as joins,
// leaves and encryption notices.
const DefaultSentinelSender = "group_notification"

// Message is one parsed chat record with its calendar fields derived once.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`

	Year     int    `json:"year"`
	Month    string `json:"month"`
	MonthNum int    `json:"month_num"`
	Day      int    `json:"day"`
	DayName  string `json:"day_name"`
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	Period   string `json:"period"`
}

func newMessage(ts time.Time, sender, text string) Message {
	return Message{
		Timestamp: ts,
		Sender:    sender,
		Text:      text,
		Year:      ts.Year(),
		Month:     ts.Month().String(),
		MonthNum:  int(ts.Month()),
		Day:       ts.Day(),
		DayName:   ts.Weekday().String(),
		Hour:      ts.Hour(),
		Minute:    ts.Minute(),
		Period:    PeriodLabel(ts.Hour()),
	}
}

// Date returns the calendar date of the message at midnight.
func (m Message) Date() time.Time {
	return time.Date(m.Year, time.Month(m.MonthNum), m.Day, 0, 0, 0, 0, m.Timestamp.Location())
}

// PeriodLabel returns the hour bucket used as heatmap column.
// Hour 23 wraps to "23-00" and hour 0 is written "00-1".
func PeriodLabel(hour int) string {
	switch hour {
	case 23:
		return "23-00"
	case 0:
		return "00-1"
	default:
		return strconv.Itoa(hour) + "-" + strconv.Itoa(hour+1)
	}
}

// PeriodStart returns the starting hour encoded in a period label, or -1.
func PeriodStart(label string) int {
	for i := 0; i < len(label); i++ {
		if label[i] == '-' {
			h, err := strconv.Atoi(label[:i])
			if err != nil {
				return -1
			}
			return h
		}
	}
	return -1
}
