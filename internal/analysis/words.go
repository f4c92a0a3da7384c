package analysis

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/edgard/chatlens/internal/chatexport"
	"github.com/edgard/chatlens/internal/wordcloud"
)

// WordCount is a token with its frequency.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// MostCommonWords returns the most frequent tokens, ties by first occurrence.
func (a *Analyzer) MostCommonWords(selectedUser string, t *chatexport.Table) []WordCount {
	words := a.wordFrequencies(a.Filter(selectedUser, t))
	sort.SliceStable(words, func(i, j int) bool { return words[i].Count > words[j].Count })
	if len(words) > a.opts.TopWords {
		words = words[:a.opts.TopWords]
	}
	return words
}

// WordCloud lays out the token frequencies of the selection.
func (a *Analyzer) WordCloud(selectedUser string, t *chatexport.Table) (*wordcloud.Layout, error) {
	freqs := a.wordFrequencies(a.Filter(selectedUser, t))
	words := make([]wordcloud.Word, 0, len(freqs))
	for _, f := range freqs {
		words = append(words, wordcloud.Word{Text: f.Word, Count: f.Count})
	}
	return wordcloud.Build(words, a.opts.WordCloud)
}

// wordFrequencies counts tokens in first-occurrence order. System and media
// records are skipped; tokens are lower-cased, whitespace-split and checked
// against the stop words and the minimum length.
func (a *Analyzer) wordFrequencies(t *chatexport.Table) []WordCount {
	index := make(map[string]int)
	out := []WordCount{}
	for _, m := range t.Messages() {
		if m.Sender == a.opts.Sentinel || a.isMedia(m) {
			continue
		}
		for _, tok := range strings.Fields(strings.ToLower(m.Text)) {
			if utf8.RuneCountInString(tok) < a.opts.MinWordLength || a.opts.StopWords.Contains(tok) {
				continue
			}
			i, ok := index[tok]
			if !ok {
				i = len(out)
				index[tok] = i
				out = append(out, WordCount{Word: tok})
			}
			out[i].Count++
		}
	}
	return out
}
