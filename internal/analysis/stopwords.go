package analysis

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed stop_words.txt
var defaultStopWords string

// StopWords is a set of lower-case tokens excluded from word frequencies.
type StopWords map[string]struct{}

// Contains reports whether the token is a stop word.
func (s StopWords) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// DefaultStopWords returns the embedded English and romanized Hindi list.
func DefaultStopWords() StopWords {
	words, _ := ReadStopWords(strings.NewReader(defaultStopWords))
	return words
}

// ReadStopWords reads whitespace-separated tokens. Lines starting with '#'
// are comments.
func ReadStopWords(r io.Reader) (StopWords, error) {
	words := make(StopWords)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, w := range strings.Fields(line) {
			words[strings.ToLower(w)] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stop words: %w", err)
	}
	return words, nil
}

// LoadStopWordsFile reads a stop-word list from disk.
func LoadStopWordsFile(path string) (StopWords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stop words file: %w", err)
	}
	defer f.Close()
	return ReadStopWords(f)
}
