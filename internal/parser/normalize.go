// Package parser turns raw transcript lines into typed tokens and extracts
// prices, customer identities, quantities and notes from them.
package parser

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transcripts copied out of chat apps carry exotic whitespace, zero-width
// characters and typographic dashes that break the line grammars. Every raw
// line is cleaned before classification.
var (
	stripFormat = runes.Remove(runes.In(unicode.Cf))

	foldRunes = runes.Map(func(r rune) rune {
		switch {
		case unicode.Is(unicode.Zs, r), r == ' ', r == ' ':
			return ' '
		case unicode.Is(unicode.Pd, r), r == '−':
			return '-'
		}
		return r
	})
)

// NormalizeLine returns the line with unicode space variants folded to ' ',
// dash variants folded to '-', and zero-width/directional format characters
// removed. The input is returned unchanged if transformation fails.
func NormalizeLine(line string) string {
	// transform.Chain holds per-use buffers, so build it per call; the
	// underlying runes transformers are stateless and shared.
	cleaner := transform.Chain(norm.NFC, stripFormat, foldRunes)
	out, _, err := transform.String(cleaner, line)
	if err != nil {
		return line
	}
	return out
}
