package chatexport

import (
	"slices"
	"sort"
)

// Table is the immutable, ordered set of messages parsed from one export.
// A nil *Table behaves as an empty table.
type Table struct {
	messages []Message
	grammar  string
	anchors  int
	dropped  int
}

// NewTable builds a table from messages that are already in chat order.
func NewTable(messages []Message) *Table {
	return &Table{messages: slices.Clone(messages), anchors: len(messages)}
}

// Len returns the number of messages.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.messages)
}

// At returns the i-th message in chat order, or the zero Message when i is
// outside [0, Len()).
func (t *Table) At(i int) Message {
	if t == nil || i < 0 || i >= len(t.messages) {
		return Message{}
	}
	return t.messages[i]
}

// Messages returns a copy of the messages in chat order.
func (t *Table) Messages() []Message {
	if t == nil {
		return nil
	}
	return slices.Clone(t.messages)
}

// Grammar returns the name of the anchor grammar used to parse the export.
func (t *Table) Grammar() string {
	if t == nil {
		return ""
	}
	return t.grammar
}

// Anchors returns how many anchors were detected in the export.
func (t *Table) Anchors() int {
	if t == nil {
		return 0
	}
	return t.anchors
}

// Dropped returns how many anchored records were discarded for invalid dates.
func (t *Table) Dropped() int {
	if t == nil {
		return 0
	}
	return t.dropped
}

// Filter returns a new table with the messages for which keep is true.
func (t *Table) Filter(keep func(Message) bool) *Table {
	out := &Table{grammar: t.Grammar()}
	if t == nil {
		return out
	}
	for _, m := range t.messages {
		if keep(m) {
			out.messages = append(out.messages, m)
		}
	}
	out.anchors = len(out.messages)
	return out
}

// ForSender returns the messages written by sender.
func (t *Table) ForSender(sender string) *Table {
	return t.Filter(func(m Message) bool { return m.Sender == sender })
}

// Senders returns the distinct senders sorted by name, excluding the given names.
func (t *Table) Senders(exclude ...string) []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, ex := range exclude {
		seen[ex] = struct{}{}
	}
	var senders []string
	for _, m := range t.messages {
		if _, ok := seen[m.Sender]; ok {
			continue
		}
		seen[m.Sender] = struct{}{}
		senders = append(senders, m.Sender)
	}
	sort.Strings(senders)
	return senders
}
