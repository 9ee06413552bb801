package utils

import (
	"regexp"
	"unicode/utf8"
)

// Tax IDs of the companies whose marketplace fees are imported. On these
// documents they are always the buyer, never the vendor.
const (
	ClientSHD    = "0105563022918"
	ClientRabbit = "0105561071873"
	ClientTopOne = "0105565027615"
)

var clientTaxIDs = map[string]bool{
	ClientSHD:    true,
	ClientRabbit: true,
	ClientTopOne: true,
}

// Labels that mark the tax ID that follows as the buyer's.
var buyerLabelRe = regexp.MustCompile(`(?i)(?:customer|buyer|client|bill(?:ed)?\s*to|sold\s*to|ลูกค้า|ผู้ซื้อ)[^\n]{0,40}$`)

// IsClientTaxID reports whether id belongs to one of the importing companies.
func IsClientTaxID(id string) bool {
	return clientTaxIDs[id]
}

// FindClientTaxID returns the first known client tax ID printed in text.
func FindClientTaxID(text string) string {
	for _, m := range taxID13Re.FindAllStringSubmatch(NormalizeText(text), -1) {
		if clientTaxIDs[m[1]] {
			return m[1]
		}
	}
	return ""
}

// buyerLabeled reports whether the text just before pos, on the same line,
// names the buyer.
func buyerLabeled(t string, pos int) bool {
	start := max(0, pos-160)
	for start < pos && !utf8.RuneStart(t[start]) {
		start++
	}
	return buyerLabelRe.MatchString(t[start:pos])
}
