package chatexport

import (
	"strings"
	"unicode/utf8"
)

// formattingReplacer removes the invisible characters that exporting clients
// put around timestamps and names, and turns no-break spaces into plain spaces.
// U+200D (zero width joiner) is kept because emoji sequences depend on it.
var formattingReplacer = strings.NewReplacer(
	"\u202F", " ", "\u00A0", " ",
	"\u200E", "", "\u200F", "",
	"\u200B", "", "\u200C", "",
	"\u2060", "", "\uFEFF", "",
	"\u202A", "", "\u202B", "",
	"\u202C", "", "\u202D", "", "\u202E", "",
	"\r\n", "\n", "\r", "\n",
)

// ampmReplacer canonicalises meridiem markers so they parse with the "PM" layouts.
var ampmReplacer = strings.NewReplacer(".", "", "A M", "AM", "P M", "PM")

// Sanitize makes raw export text safe for anchor matching.
// The result is valid UTF-8 with normalized line endings and no formatting characters.
func Sanitize(raw string) string {
	if !utf8.ValidString(raw) {
		raw = strings.ToValidUTF8(raw, "\uFFFD")
	}
	return formattingReplacer.Replace(raw)
}

func normalizeClock(s string) string {
	s = ampmReplacer.Replace(strings.ToUpper(strings.TrimSpace(s)))
	return strings.Join(strings.Fields(s), " ")
}
