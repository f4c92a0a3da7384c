package chatexport

import (
	"fmt"
	"strings"
	"time"
)

// ParseTimestamp combines the date and time strings of an anchor using the
// grammar's layouts. Four-digit year layouts must be listed before two-digit ones.
func (g *Grammar) ParseTimestamp(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = normalizeClock(clock)

	var d time.Time
	var err error
	for _, layout := range g.DateLayouts {
		if d, err = time.Parse(layout, date); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}

	var c time.Time
	for _, layout := range g.TimeLayouts {
		if c, err = time.Parse(layout, clock); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", clock, err)
	}

	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC), nil
}

// splitSender separates "name: text". Bodies without a usable name belong to
// the sentinel sender.
func splitSender(body, sentinel string) (sender, text string) {
	idx := strings.Index(body, ": ")
	if idx <= 0 {
		return sentinel, body
	}
	name := body[:idx]
	if strings.ContainsAny(name, "\n") || strings.TrimSpace(name) == "" {
		return sentinel, body
	}
	return name, body[idx+2:]
}

// normalize turns one segment into a Message.
func (g *Grammar) normalize(seg Segment, sentinel string) (Message, error) {
	ts, err := g.ParseTimestamp(seg.Date, seg.Time)
	if err != nil {
		return Message{}, err
	}
	body := strings.TrimRight(seg.Body, "\n")
	sender, text := splitSender(body, sentinel)
	return newMessage(ts, sender, text), nil
}
