package analysis

import (
	"strings"

	"github.com/edgard/chatlens/internal/chatexport"
)

// Stats holds the headline counts for a selection.
type Stats struct {
	Messages int `json:"messages"`
	Words    int `json:"words"`
	Media    int `json:"media"`
	Links    int `json:"links"`
}

// FetchStats counts messages, words, media placeholders and links. Media
// placeholder records contribute no words.
func (a *Analyzer) FetchStats(selectedUser string, t *chatexport.Table) Stats {
	var s Stats
	for _, m := range a.Filter(selectedUser, t).Messages() {
		s.Messages++
		if a.isMedia(m) {
			s.Media++
		} else {
			s.Words += len(strings.Fields(m.Text))
		}
		s.Links += len(a.opts.LinkPattern.FindAllStringIndex(m.Text, -1))
	}
	return s
}
