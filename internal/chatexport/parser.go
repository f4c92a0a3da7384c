package chatexport

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ErrInputTooLarge is returned by ParseReader when the export exceeds the size limit.
var ErrInputTooLarge = errors.New("chat export exceeds size limit")

// Options configures a Parser.
type Options struct {
	// Grammars are tried in order; empty means the built-in defaults.
	Grammars []*Grammar
	// Sentinel is the sender of system lines; empty means DefaultSentinelSender.
	Sentinel string
	// MaxBytes bounds ParseReader input; zero means unlimited.
	MaxBytes int64
	Logger   *slog.Logger
}

// Parser converts raw export text into a Table. It holds no per-export state
// and is safe for concurrent use.
type Parser struct {
	grammars []*Grammar
	sentinel string
	maxBytes int64
	logger   *slog.Logger
}

// NewParser creates a parser from options.
func NewParser(opts Options) (*Parser, error) {
	grammars := opts.Grammars
	if len(grammars) == 0 {
		var err error
		if grammars, err = ResolveGrammars(nil, nil); err != nil {
			return nil, err
		}
	}
	sentinel := opts.Sentinel
	if sentinel == "" {
		sentinel = DefaultSentinelSender
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		grammars: grammars,
		sentinel: sentinel,
		maxBytes: opts.MaxBytes,
		logger:   logger.With("component", "chatexport"),
	}, nil
}

// Sentinel returns the sender used for system lines.
func (p *Parser) Sentinel() string {
	return p.sentinel
}

// Parse builds a fresh table from raw export text. Input without any anchor
// gives an empty table. Anchored records with impossible dates are dropped.
func (p *Parser) Parse(raw string) *Table {
	text := Sanitize(raw)

	g := DetectGrammar(text, p.grammars)
	if g == nil {
		p.logger.Debug("no chat anchors recognized", "bytes", len(raw))
		return &Table{}
	}

	segments := SegmentText(text, g)
	table := &Table{
		messages: make([]Message, 0, len(segments)),
		grammar:  g.Name,
		anchors:  len(segments),
	}
	for _, seg := range segments {
		msg, err := g.normalize(seg, p.sentinel)
		if err != nil {
			table.dropped++
			p.logger.Warn("dropping record with invalid timestamp",
				"anchor", strings.TrimSpace(seg.Anchor), "error", err)
			continue
		}
		table.messages = append(table.messages, msg)
	}

	p.logger.Debug("chat export parsed",
		"grammar", g.Name,
		"anchors", table.anchors,
		"messages", len(table.messages),
		"dropped", table.dropped)
	return table
}

// ParseReader reads an export and parses it, enforcing the size limit.
func (p *Parser) ParseReader(r io.Reader) (*Table, error) {
	if p.maxBytes > 0 {
		r = io.LimitReader(r, p.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat export: %w", err)
	}
	if p.maxBytes > 0 && int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrInputTooLarge, p.maxBytes)
	}
	return p.Parse(string(data)), nil
}
