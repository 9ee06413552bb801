package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/Aashish23092/marketplace-invoice-importer/utils"
)

// feeName tidies a fee label and caps it at maxRunes runes.
func feeName(raw string, maxRunes int) string {
	name := utils.NormalizeOneLine(raw)
	if utf8.RuneCountInString(name) <= maxRunes {
		return name
	}
	return strings.TrimSpace(string([]rune(name)[:maxRunes]))
}

// isSummaryLine reports whether a table line is a total or tax line rather
// than a fee.
func isSummaryLine(name string, markers []string) bool {
	low := strings.ToLower(name)
	for _, m := range markers {
		if strings.Contains(low, m) {
			return true
		}
	}
	return false
}
