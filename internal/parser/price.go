package parser

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Price notations recognized in item lines:
//
//	"3,4jt"      -> 3_400_000  (million suffix, fractional part in millions)
//	"125rb"      -> 125_000    (thousand suffix)
//	"1.989.000"  -> 1_989_000  (fully delimited)
//
// Bare numbers ("isi 44 pcs") never qualify, so unrelated quantities in the
// item text cannot be mistaken for prices.
var (
	millionRe   = regexp.MustCompile(`(?i)(\d+(?:[,.]\d+)?)\s*jt\b`)
	thousandRe  = regexp.MustCompile(`(?i)(\d+(?:[,.]\d+)?)\s*rb\b`)
	delimitedRe = regexp.MustCompile(`\d{1,3}(?:\.\d{3})+(?:,\d+)?`)

	trailingNoteRe = regexp.MustCompile(`\s+\([^)]*\)\s*$`)
)

type priceGrammar struct {
	re    *regexp.Regexp
	scale decimal.Decimal
}

// priceGrammars are tried per scan position; when two grammars match at the
// same offset the suffix notations win over the delimited form.
var priceGrammars = []priceGrammar{
	{millionRe, decimal.NewFromInt(1_000_000)},
	{thousandRe, decimal.NewFromInt(1_000)},
	{delimitedRe, decimal.NewFromInt(1)},
}

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// PriceMatch describes a price fragment found in a text.
type PriceMatch struct {
	// Amount in rupiah; zero when Unparsable.
	Amount int64

	// Unparsable is set when the fragment matched a grammar but its value
	// could not be represented (out of range).
	Unparsable bool

	// Start and End delimit the matched fragment within the input.
	Start, End int
}

// FindPrice scans the text left to right and returns the first fragment
// matching any recognized price notation. The leftmost match wins regardless
// of which notation it uses.
func FindPrice(text string) (PriceMatch, bool) {
	best := -1
	var bestGrammar priceGrammar
	var bestLoc []int

	for _, g := range priceGrammars {
		loc := g.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if best == -1 || loc[0] < best {
			best = loc[0]
			bestGrammar = g
			bestLoc = loc
		}
	}
	if best == -1 {
		return PriceMatch{}, false
	}

	m := PriceMatch{Start: bestLoc[0], End: bestLoc[1]}
	numeric := text[bestLoc[0]:bestLoc[1]]
	if len(bestLoc) > 2 && bestLoc[2] >= 0 {
		// Suffix grammars capture the numeric part; "," is a decimal comma.
		numeric = strings.ReplaceAll(text[bestLoc[2]:bestLoc[3]], ",", ".")
	} else {
		// Delimited form: "." groups thousands, "," starts the fraction.
		numeric = strings.ReplaceAll(numeric, ".", "")
		numeric = strings.ReplaceAll(numeric, ",", ".")
	}

	d, err := decimal.NewFromString(numeric)
	if err != nil {
		m.Unparsable = true
		return m, true
	}
	d = d.Mul(bestGrammar.scale)
	if d.Cmp(maxAmount) > 0 {
		m.Unparsable = true
		return m, true
	}
	m.Amount = d.IntPart()
	return m, true
}

// ParsePrice returns the first recognizable price in the text as rupiah,
// or false when no parsable price is present.
func ParsePrice(text string) (int64, bool) {
	m, ok := FindPrice(text)
	if !ok || m.Unparsable {
		return 0, false
	}
	return m.Amount, true
}

// CleanItemName strips every price fragment from an item line, then drops a
// space-separated trailing parenthetical note. Parentheticals attached
// mid-name stay part of the name.
func CleanItemName(line string) string {
	name := line
	for _, g := range priceGrammars {
		name = g.re.ReplaceAllString(name, "")
	}
	name = trailingNoteRe.ReplaceAllString(name, "")
	return collapseSpaces(name)
}
