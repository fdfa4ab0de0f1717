// Package cli provides CLI infrastructure for dukepro: the command error
// taxonomy, terminal-aware output helpers and command keyword matching.
package cli

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keyword describes a command verb recognised at the start of a line.
type Keyword struct {
	Name string
	// FoldFirst also accepts the verb with an upper-case first letter
	// ("Bye" for "bye"). The rest of the word is always matched exactly.
	FoldFirst bool
}

// FirstWord returns the leading whitespace-delimited token of line.
func FirstWord(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// MatchKeyword finds the keyword named by word.
// Returns the canonical keyword name or an *UnrecognizedCommandError.
func MatchKeyword(word string, keywords []Keyword) (string, error) {
	for _, kw := range keywords {
		if word == kw.Name {
			return kw.Name, nil
		}
		if kw.FoldFirst && word == capitalize(kw.Name) {
			return kw.Name, nil
		}
	}
	return "", &UnrecognizedCommandError{Input: word}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
