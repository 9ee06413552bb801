package utils

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	zeroWidthRe = regexp.MustCompile(`[\x{200b}-\x{200f}\x{feff}]`)
	inlineWSRe  = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	manyNLRe    = regexp.MustCompile(`\n{3,}`)
	anyWSRe     = regexp.MustCompile(`\s+`)
)

// NormalizeText prepares raw PDF/OCR text for pattern matching. Line
// structure is kept so that (?m) anchored table patterns keep working:
// whitespace collapses within a line, lines are trimmed and runs of blank
// lines shrink to one. Normalizing twice gives the same result.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	s := strings.ToValidUTF8(text, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = zeroWidthRe.ReplaceAllString(s, "")
	s = norm.NFC.String(s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineWSRe.ReplaceAllString(line, " "))
	}

	s = strings.TrimSpace(strings.Join(lines, "\n"))
	return manyNLRe.ReplaceAllString(s, "\n\n")
}

// NormalizeOneLine flattens text to a single line.
func NormalizeOneLine(text string) string {
	return strings.TrimSpace(anyWSRe.ReplaceAllString(NormalizeText(text), " "))
}
