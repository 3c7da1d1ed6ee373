package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Quantity markers on customer lines: "(+10 box)", "(+ 2)".
	quantityRe        = regexp.MustCompile(`(?i)\(\+\s*(\d+)\s*\w*\)`)
	quantityContentRe = regexp.MustCompile(`^\+\s*\d+`)

	parenRe = regexp.MustCompile(`\(([^)]*)\)`)

	// A phone is a run of digits with optional internal separators and an
	// optional leading "+". Anything shorter than 9 digits is not a phone.
	phoneRe = regexp.MustCompile(`\+?\d[\d\s.-]{7,}\d`)

	// Trailing confirmation chatter: "ok" suffixes, alone or around a
	// trailing parenthetical.
	okBeforeParenRe = regexp.MustCompile(`(?i)\s+ok\s*\(`)
	parenOkSuffixRe = regexp.MustCompile(`(?i)\s*\([^)]*\)\s*ok\s*$`)
	trailingParenRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	okSuffixRe      = regexp.MustCompile(`(?i)\s+ok\s*$`)

	spaceRe    = regexp.MustCompile(`\s+`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// NormalizePhone reduces a raw phone fragment to comparable digits: all
// separators dropped, the +62/62 country prefix rewritten to a single
// leading zero. The result always starts with "0" and the function is
// idempotent.
func NormalizePhone(raw string) string {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "62") {
		digits = "0" + digits[2:]
	}
	if !strings.HasPrefix(digits, "0") {
		digits = "0" + digits
	}
	return digits
}

// FormatPhone renders a normalized phone for reports: "+62 812-3456-7890".
// Inputs too short to group are returned unchanged.
func FormatPhone(normalized string) string {
	digits := strings.TrimPrefix(normalized, "0")
	if len(digits) < 8 {
		return normalized
	}
	return fmt.Sprintf("+62 %s-%s-%s", digits[0:3], digits[3:7], digits[7:])
}

// MarkLabel is the parsed body of a customer mark line.
type MarkLabel struct {
	// Key is the canonical identity: normalized phone when present,
	// else the lowercased whitespace-collapsed name.
	Key string

	// Name is the label with quantity, note, confirmation chatter and
	// phone removed. Original casing preserved.
	Name string

	// Phone is the normalized phone, empty when the label has none.
	Phone string

	// Quantity bought by this mark; 1 unless a "(+N ...)" marker is present.
	Quantity int64

	// Note is the trailing parenthetical kept for the bill line.
	// Only extracted from checked marks.
	Note string
}

// ParseMarkLabel extracts quantity, note, phone and name from a customer
// mark body and computes its canonical identity key.
func ParseMarkLabel(body string, checked bool) MarkLabel {
	label := MarkLabel{Quantity: 1}
	text := collapseSpaces(body)

	// Quantity first: its marker is also a parenthetical, so it must be
	// claimed before note extraction.
	if loc := quantityRe.FindStringSubmatchIndex(text); loc != nil {
		if n, err := strconv.ParseInt(text[loc[2]:loc[3]], 10, 64); err == nil && n > 0 {
			label.Quantity = n
		}
		text = collapseSpaces(text[:loc[0]] + " " + text[loc[1]:])
	}

	if checked {
		label.Note, text = extractNote(text)
	}

	// Confirmation chatter ("ok", trailing parentheticals) is noise.
	text = okBeforeParenRe.ReplaceAllString(text, " (")
	text = collapseSpaces(parenOkSuffixRe.ReplaceAllString(text, ""))
	text = collapseSpaces(trailingParenRe.ReplaceAllString(text, ""))
	text = collapseSpaces(okSuffixRe.ReplaceAllString(text, ""))

	if loc := lastPhoneMatch(text); loc != nil {
		label.Phone = NormalizePhone(text[loc[0]:loc[1]])
		text = collapseSpaces(text[:loc[0]] + " " + text[loc[1]:])
	}
	label.Name = text

	if label.Phone != "" {
		label.Key = label.Phone
	} else {
		label.Key = strings.ToLower(label.Name)
	}
	return label
}

// extractNote finds the rightmost parenthetical that is not a quantity
// marker and returns its content plus the text with it removed.
func extractNote(text string) (note, rest string) {
	locs := parenRe.FindAllStringSubmatchIndex(text, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		loc := locs[i]
		content := strings.TrimSpace(text[loc[2]:loc[3]])
		if content == "" || quantityContentRe.MatchString(content) {
			continue
		}
		return content, collapseSpaces(text[:loc[0]] + " " + text[loc[1]:])
	}
	return "", text
}

// lastPhoneMatch returns the rightmost phone-shaped fragment with enough
// digits to be a real number, or nil.
func lastPhoneMatch(text string) []int {
	locs := phoneRe.FindAllStringIndex(text, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		digits := nonDigitRe.ReplaceAllString(text[locs[i][0]:locs[i][1]], "")
		if len(digits) >= 9 {
			return locs[i]
		}
	}
	return nil
}
