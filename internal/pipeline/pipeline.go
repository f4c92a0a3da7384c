// Package pipeline wires the chat parser and the analyzer from configuration
// and instruments parsing.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/edgard/chatlens/internal/analysis"
	"github.com/edgard/chatlens/internal/chatexport"
	"github.com/edgard/chatlens/internal/config"
	"github.com/edgard/chatlens/internal/metrics"
	"github.com/edgard/chatlens/internal/wordcloud"
)

// Pipeline parses exports and runs aggregations over them.
type Pipeline struct {
	Parser   *chatexport.Parser
	Analyzer *analysis.Analyzer
	logger   *slog.Logger
}

// New builds the parser and analyzer. maxBytes bounds Parse input; zero
// means unlimited.
func New(cfg *config.Config, maxBytes int64, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	grammars, err := chatexport.ResolveGrammars(cfg.Parser.Grammars, cfg.Parser.CustomGrammars)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve grammars: %w", err)
	}
	parser, err := chatexport.NewParser(chatexport.Options{
		Grammars: grammars,
		Sentinel: cfg.Parser.Sentinel,
		MaxBytes: maxBytes,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}

	stopWords := analysis.DefaultStopWords()
	if cfg.Analysis.StopWordsFile != "" {
		if stopWords, err = analysis.LoadStopWordsFile(cfg.Analysis.StopWordsFile); err != nil {
			return nil, err
		}
	}

	analyzer := analysis.New(analysis.Options{
		OverallLabel:     cfg.Analysis.OverallLabel,
		Sentinel:         cfg.Parser.Sentinel,
		MediaPlaceholder: cfg.Analysis.MediaPlaceholder,
		StopWords:        stopWords,
		MinWordLength:    cfg.Analysis.MinWordLength,
		TopWords:         cfg.Analysis.TopWords,
		TopUsers:         cfg.Analysis.TopUsers,
		TopEmojis:        cfg.Analysis.TopEmojis,
		WordCloud: wordcloud.Options{
			Width:           cfg.WordCloud.Width,
			Height:          cfg.WordCloud.Height,
			MinFontSize:     cfg.WordCloud.MinFontSize,
			MaxFontSize:     cfg.WordCloud.MaxFontSize,
			MaxWords:        cfg.WordCloud.MaxWords,
			RelativeScaling: cfg.WordCloud.RelativeScaling,
			Background:      cfg.WordCloud.Background,
			Palette:         cfg.WordCloud.Palette,
		},
		Logger: logger,
	})

	return &Pipeline{
		Parser:   parser,
		Analyzer: analyzer,
		logger:   logger.With("component", "pipeline"),
	}, nil
}

// Parse reads one export and records parsing metrics under source.
func (p *Pipeline) Parse(r io.Reader, source string) (*chatexport.Table, error) {
	start := time.Now()
	table, err := p.Parser.ParseReader(r)
	if err != nil {
		reason := "read_error"
		if errors.Is(err, chatexport.ErrInputTooLarge) {
			reason = "too_large"
		}
		metrics.ExportsRejected.WithLabelValues(source, reason).Inc()
		return nil, err
	}

	grammar := table.Grammar()
	if grammar == "" {
		grammar = "none"
	}
	metrics.ExportsParsed.WithLabelValues(source, grammar).Inc()
	metrics.MessagesParsed.Add(float64(table.Len()))
	metrics.RecordsDropped.Add(float64(table.Dropped()))
	metrics.ParseDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("Chat export parsed",
		"source", source,
		"grammar", grammar,
		"messages", table.Len(),
		"dropped", table.Dropped())
	return table, nil
}
