package parser

import (
	"regexp"
	"strings"
)

// SkipHeading marks the start of the price-check request section. Everything
// from this heading to the end of the input is ignored; the section never
// ends early, matching how the transcripts are laid out.
const SkipHeading = "Product REQUEST cek harga"

// TokenKind classifies a transcript line.
type TokenKind int

const (
	// TokenIgnored lines carry no data: blanks, skip-section content,
	// and free text with neither a mark prefix nor a price.
	TokenIgnored TokenKind = iota

	// TokenItem lines define a new item with a price.
	TokenItem

	// TokenMark lines mark a customer against the most recent item.
	TokenMark
)

// Token is one classified transcript line.
type Token struct {
	Kind TokenKind

	// Line is the 1-based line number in the input.
	Line int

	// Text is the normalized line for items, or the mark body with its
	// prefix stripped for marks. Empty for ignored lines.
	Text string

	// Checked is true for "[x]" marks.
	Checked bool

	// Billable is true for marks that bill: checked checkboxes and
	// numbered-list entries.
	Billable bool
}

var (
	checkedRe   = regexp.MustCompile(`^-\s*\[[xX]\]\s*`)
	uncheckedRe = regexp.MustCompile(`^-\s*\[\s*\]\s*`)
	numberedRe  = regexp.MustCompile(`^\d+\.\s*`)
	bareDashRe  = regexp.MustCompile(`^-\s+`)
)

// Tokenize splits the raw input into an ordered token sequence. Order is
// preserved: the ledger builder relies on marks following their item.
//
// A mark prefix always wins over a price fragment in the same line, so a
// customer named "125rb" style noise cannot redefine the current item.
func Tokenize(input string) []Token {
	lines := strings.Split(input, "\n")
	tokens := make([]Token, 0, len(lines))
	skipping := false

	for i, raw := range lines {
		num := i + 1
		line := strings.TrimSpace(NormalizeLine(raw))

		if line == "" || skipping {
			tokens = append(tokens, Token{Kind: TokenIgnored, Line: num})
			continue
		}
		if strings.Contains(line, SkipHeading) {
			skipping = true
			tokens = append(tokens, Token{Kind: TokenIgnored, Line: num})
			continue
		}

		if tok, ok := classifyMark(line, num); ok {
			tokens = append(tokens, tok)
			continue
		}

		if _, ok := FindPrice(line); ok {
			tokens = append(tokens, Token{Kind: TokenItem, Line: num, Text: line})
			continue
		}

		tokens = append(tokens, Token{Kind: TokenIgnored, Line: num})
	}
	return tokens
}

func classifyMark(line string, num int) (Token, bool) {
	switch {
	case checkedRe.MatchString(line):
		return Token{
			Kind:     TokenMark,
			Line:     num,
			Text:     checkedRe.ReplaceAllString(line, ""),
			Checked:  true,
			Billable: true,
		}, true
	case uncheckedRe.MatchString(line):
		return Token{
			Kind: TokenMark,
			Line: num,
			Text: uncheckedRe.ReplaceAllString(line, ""),
		}, true
	case numberedRe.MatchString(line):
		return Token{
			Kind:     TokenMark,
			Line:     num,
			Text:     numberedRe.ReplaceAllString(line, ""),
			Billable: true,
		}, true
	case bareDashRe.MatchString(line):
		return Token{
			Kind: TokenMark,
			Line: num,
			Text: bareDashRe.ReplaceAllString(line, ""),
		}, true
	}
	return Token{}, false
}
