// Package analysis computes the descriptive statistics of a parsed chat
// export. Every operation filters the table by the selected user first and
// never fails on empty input.
package analysis

import (
	"log/slog"
	"regexp"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
	"mvdan.cc/xurls/v2"

	"github.com/edgard/chatlens/internal/chatexport"
	"github.com/edgard/chatlens/internal/wordcloud"
)

// Defaults applied by New to zero-valued options.
const (
	DefaultOverallLabel     = "Overall"
	DefaultMediaPlaceholder = "<Media omitted>"
	DefaultMinWordLength    = 2
	DefaultTopWords         = 20
	DefaultTopUsers         = 5
	DefaultTopEmojis        = 5
)

// Options configures an Analyzer.
type Options struct {
	OverallLabel     string
	Sentinel         string
	MediaPlaceholder string
	// StopWords nil means the embedded default list; an empty set disables filtering.
	StopWords     StopWords
	MinWordLength int
	TopWords      int
	TopUsers      int
	TopEmojis     int
	// IsEmoji classifies one grapheme cluster.
	IsEmoji func(cluster string) bool
	// LinkPattern finds URL-shaped substrings.
	LinkPattern *regexp.Regexp
	WordCloud   wordcloud.Options
	Logger      *slog.Logger
}

// Analyzer runs aggregations over chat tables. It is safe for concurrent use.
type Analyzer struct {
	opts   Options
	logger *slog.Logger
}

// New creates an analyzer, filling unset options with defaults.
func New(opts Options) *Analyzer {
	if opts.OverallLabel == "" {
		opts.OverallLabel = DefaultOverallLabel
	}
	if opts.Sentinel == "" {
		opts.Sentinel = chatexport.DefaultSentinelSender
	}
	if opts.MediaPlaceholder == "" {
		opts.MediaPlaceholder = DefaultMediaPlaceholder
	}
	if opts.StopWords == nil {
		opts.StopWords = DefaultStopWords()
	}
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = DefaultMinWordLength
	}
	if opts.TopWords <= 0 {
		opts.TopWords = DefaultTopWords
	}
	if opts.TopUsers <= 0 {
		opts.TopUsers = DefaultTopUsers
	}
	if opts.TopEmojis <= 0 {
		opts.TopEmojis = DefaultTopEmojis
	}
	if opts.IsEmoji == nil {
		opts.IsEmoji = isEmoji
	}
	if opts.LinkPattern == nil {
		opts.LinkPattern = xurls.Relaxed()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{opts: opts, logger: logger.With("component", "analysis")}
}

// OverallLabel returns the selection value that keeps every record.
func (a *Analyzer) OverallLabel() string {
	return a.opts.OverallLabel
}

// Sentinel returns the sender name of system notifications.
func (a *Analyzer) Sentinel() string {
	return a.opts.Sentinel
}

// Filter restricts the table to the selected user. The overall label keeps
// every record; an unknown user gives an empty table.
func (a *Analyzer) Filter(selectedUser string, t *chatexport.Table) *chatexport.Table {
	if selectedUser == a.opts.OverallLabel {
		if t == nil {
			return &chatexport.Table{}
		}
		return t
	}
	return t.ForSender(selectedUser)
}

// UserOptions lists the selectable users: the overall label followed by the
// distinct senders in name order, system notifications excluded.
func (a *Analyzer) UserOptions(t *chatexport.Table) []string {
	return append([]string{a.opts.OverallLabel}, t.Senders(a.opts.Sentinel)...)
}

// HasUser reports whether selectedUser is one of the UserOptions.
func (a *Analyzer) HasUser(selectedUser string, t *chatexport.Table) bool {
	if selectedUser == a.opts.OverallLabel {
		return true
	}
	if selectedUser == a.opts.Sentinel {
		return false
	}
	return t.ForSender(selectedUser).Len() > 0
}

func (a *Analyzer) isMedia(m chatexport.Message) bool {
	return m.Text == a.opts.MediaPlaceholder
}

// isEmoji treats a lone ASCII character as text; gomoji lists digits and
// '#' and '*' as keycap bases.
func isEmoji(cluster string) bool {
	if len(cluster) == 1 && cluster[0] < utf8.RuneSelf {
		return false
	}
	return gomoji.ContainsEmoji(cluster)
}
