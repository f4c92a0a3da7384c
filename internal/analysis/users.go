package analysis

import (
	"math"

	"github.com/edgard/chatlens/internal/chatexport"
)

// Share is a label with its percentage of a total.
type Share struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

// BusyUsers ranks the most active senders.
type BusyUsers struct {
	Top    []Count `json:"top"`
	Shares []Share `json:"shares"`
}

// MostBusyUsers ranks senders by message count, system notifications
// excluded. Shares are relative to all non-system messages and rounded to
// two decimals.
func (a *Analyzer) MostBusyUsers(selectedUser string, t *chatexport.Table) BusyUsers {
	var messages []chatexport.Message
	for _, m := range a.Filter(selectedUser, t).Messages() {
		if m.Sender != a.opts.Sentinel {
			messages = append(messages, m)
		}
	}

	counts := valueCounts(messages, func(m chatexport.Message) string { return m.Sender })
	if len(counts) > a.opts.TopUsers {
		counts = counts[:a.opts.TopUsers]
	}

	busy := BusyUsers{Top: counts, Shares: make([]Share, 0, len(counts))}
	for _, c := range counts {
		busy.Shares = append(busy.Shares, Share{
			Label:   c.Label,
			Percent: percent(c.Messages, len(messages)),
		})
	}
	return busy
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}
