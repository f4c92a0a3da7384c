package chatexport

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidGrammar is returned when a grammar definition cannot be compiled.
var ErrInvalidGrammar = errors.New("invalid anchor grammar")

// Grammar describes one date-time anchor format used by an exporting client.
// The anchor pattern must expose the named groups "date" and "time".
type Grammar struct {
	Name        string
	Anchor      *regexp.Regexp
	DateLayouts []string
	TimeLayouts []string

	dateIdx int
	timeIdx int
}

// GrammarConfig is the uncompiled form of a Grammar, as found in configuration.
type GrammarConfig struct {
	Name        string   `mapstructure:"name"         validate:"required"`
	Pattern     string   `mapstructure:"pattern"      validate:"required"`
	DateLayouts []string `mapstructure:"date_layouts" validate:"required,min=1"`
	TimeLayouts []string `mapstructure:"time_layouts" validate:"required,min=1"`
}

const (
	datePart = `(?P<date>\d{1,2}/\d{1,2}/(?:\d{4}|\d{2}))`
	ampmPart = `(?:\s?[AaPp]\.?\s?[Mm]\.?)?`
)

var (
	slashDateLayouts  = []string{"2/1/2006", "2/1/06"}
	dottedDateLayouts = []string{"2.1.2006", "2.1.06"}
	timeLayouts       = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3:04:05 PM", "3:04:05PM"}
)

var builtinGrammars = map[string]GrammarConfig{
	"android": {
		Name:        "android",
		Pattern:     `(?m)^` + datePart + `,\s(?P<time>\d{1,2}:\d{2}` + ampmPart + `)\s-\s`,
		DateLayouts: slashDateLayouts,
		TimeLayouts: timeLayouts,
	},
	"ios": {
		Name:        "ios",
		Pattern:     `(?m)^\[` + datePart + `,\s(?P<time>\d{1,2}:\d{2}(?::\d{2})?` + ampmPart + `)\]\s`,
		DateLayouts: slashDateLayouts,
		TimeLayouts: timeLayouts,
	},
	"dotted": {
		Name:        "dotted",
		Pattern:     `(?m)^(?P<date>\d{1,2}\.\d{1,2}\.(?:\d{4}|\d{2})),\s(?P<time>\d{1,2}:\d{2}(?::\d{2})?` + ampmPart + `)\s-\s`,
		DateLayouts: dottedDateLayouts,
		TimeLayouts: timeLayouts,
	},
}

// DefaultGrammarNames lists the built-in grammars enabled when none are configured.
var DefaultGrammarNames = []string{"android", "ios", "dotted"}

// BuiltinGrammar returns the named built-in grammar.
func BuiltinGrammar(name string) (*Grammar, error) {
	def, ok := builtinGrammars[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown built-in grammar %q", ErrInvalidGrammar, name)
	}
	return CompileGrammar(def)
}

// CompileGrammar validates a grammar definition and compiles its anchor pattern.
func CompileGrammar(def GrammarConfig) (*Grammar, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: grammar name is empty", ErrInvalidGrammar)
	}
	if len(def.DateLayouts) == 0 || len(def.TimeLayouts) == 0 {
		return nil, fmt.Errorf("%w: grammar %q needs date and time layouts", ErrInvalidGrammar, def.Name)
	}

	re, err := regexp.Compile(def.Pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: grammar %q: %v", ErrInvalidGrammar, def.Name, err)
	}

	dateIdx := re.SubexpIndex("date")
	timeIdx := re.SubexpIndex("time")
	if dateIdx < 0 || timeIdx < 0 {
		return nil, fmt.Errorf("%w: grammar %q must define the named groups date and time", ErrInvalidGrammar, def.Name)
	}

	return &Grammar{
		Name:        def.Name,
		Anchor:      re,
		DateLayouts: append([]string(nil), def.DateLayouts...),
		TimeLayouts: append([]string(nil), def.TimeLayouts...),
		dateIdx:     dateIdx,
		timeIdx:     timeIdx,
	}, nil
}

// ResolveGrammars compiles the enabled built-in grammars followed by the custom ones.
// An empty names list enables DefaultGrammarNames.
func ResolveGrammars(names []string, custom []GrammarConfig) ([]*Grammar, error) {
	if len(names) == 0 && len(custom) == 0 {
		names = DefaultGrammarNames
	}

	grammars := make([]*Grammar, 0, len(names)+len(custom))
	for _, name := range names {
		g, err := BuiltinGrammar(name)
		if err != nil {
			return nil, err
		}
		grammars = append(grammars, g)
	}
	for _, def := range custom {
		g, err := CompileGrammar(def)
		if err != nil {
			return nil, err
		}
		grammars = append(grammars, g)
	}
	return grammars, nil
}
