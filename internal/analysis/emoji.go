package analysis

import (
	"sort"

	"github.com/rivo/uniseg"

	"github.com/edgard/chatlens/internal/chatexport"
)

// EmojiCount is an emoji with its number of occurrences.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// EmojiCounts counts emoji grapheme clusters, most frequent first, ties by
// first occurrence.
func (a *Analyzer) EmojiCounts(selectedUser string, t *chatexport.Table) []EmojiCount {
	index := make(map[string]int)
	out := []EmojiCount{}
	for _, m := range a.Filter(selectedUser, t).Messages() {
		gr := uniseg.NewGraphemes(m.Text)
		for gr.Next() {
			cluster := gr.Str()
			if !a.opts.IsEmoji(cluster) {
				continue
			}
			i, ok := index[cluster]
			if !ok {
				i = len(out)
				index[cluster] = i
				out = append(out, EmojiCount{Emoji: cluster})
			}
			out[i].Count++
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// EmojiShares gives the leading emojis their percentage of all emoji
// occurrences. counts must be ordered as returned by EmojiCounts.
func (a *Analyzer) EmojiShares(counts []EmojiCount) []Share {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	n := min(len(counts), a.opts.TopEmojis)
	shares := make([]Share, 0, n)
	for _, c := range counts[:n] {
		shares = append(shares, Share{Label: c.Emoji, Percent: percent(c.Count, total)})
	}
	return shares
}
