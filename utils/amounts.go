package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
)

// AmountAfter compiles a pattern capturing the amount printed right after
// label, allowing a ":" and a currency mark in between.
func AmountAfter(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:` + label + `)\s*[:#：]?\s*(?:฿|THB)?\s*(` + MoneyPattern + `)`)
}

// Patterns are listed strongest first; the first one yielding a usable
// amount wins.
var (
	totalPatterns = []*regexp.Regexp{
		AmountAfter(`Total\s*(?:amount)?\s*\(?\s*(?:including|incl\.?|รวม)\s*(?:VAT|Tax|ภาษี(?:มูลค่าเพิ่ม)?)\s*\)?`),
		AmountAfter(`Grand\s*Total|ยอดรวมทั้งสิ้น|รวมทั้งสิ้น|จำนวนเงินรวมทั้งสิ้น`),
		AmountAfter(`Amount\s*Due|Total\s*Due|ยอด(?:ที่)?ชำระ`),
	}

	subtotalPatterns = []*regexp.Regexp{
		AmountAfter(`Sub\s*total\s*\(?\s*(?:excluding|excl\.?)\s*VAT\s*\)?|Total\s*(?:amount)?\s*\(?\s*(?:excluding|excl\.?|ก่อน|ไม่รวม)\s*(?:VAT|Tax|ภาษี(?:มูลค่าเพิ่ม)?)\s*\)?`),
		AmountAfter(`Sub\s*total|รวม(?:เงิน)?ก่อน(?:VAT|ภาษี)|มูลค่าก่อนภาษี|ยอดก่อนภาษี`),
	}

	vatPatterns = []*regexp.Regexp{
		AmountAfter(`Total\s*VAT(?:\s*\(?\s*7\s*%\s*\)?)?|VAT\s*Amount|7\s*%\s*\(VAT\)|ภาษีมูลค่าเพิ่ม\s*\(?\s*7\s*%\s*\)?`),
		AmountAfter(`\bVAT\s*\(?\s*7\s*%\s*\)?|ภาษีมูลค่าเพิ่ม|\bVAT`),
	}

	whtAnchorRe   = regexp.MustCompile(`(?i)(?:หักภาษี(?:เงินได้)?\s*ณ\s*ที่\s*จ่าย|ภาษี(?:เงินได้)?หัก\s*ณ\s*ที่\s*จ่าย|Withholding\s*Tax|Withheld\s*Tax|\bWHT\b)`)
	whtRateRe     = regexp.MustCompile(`(\d{1,2}(?:\.\d{1,2})?)\s*%`)
	whtLabeledRe  = AmountAfter(`amounting\s*to|เป็นจำนวนเงิน|เป็นจำนวน|จำนวนเงิน|จำนวน|เป็นเงิน|amount`)
	whtDecimalRe  = regexp.MustCompile(`(?:฿|THB)?\s*([0-9][0-9,]*\.[0-9]{2})\b`)
)

// whtWindow bounds how much text after a withholding phrase is searched
// for its rate and amount.
const (
	whtWindowBytes = 240
	whtWindowLines = 2
)

// ExtractAmounts finds subtotal, VAT, total and withholding tax using
// vendor neutral Thai/English labels. Missing fields stay "". A missing
// total or subtotal is derived from the other two when possible; VAT is
// never guessed.
func ExtractAmounts(text string) dto.AmountSet {
	t := NormalizeText(text)

	a := dto.AmountSet{
		Subtotal: FirstAmount(t, subtotalPatterns...),
		VAT:      FirstAmount(t, vatPatterns...),
		Total:    FirstAmount(t, totalPatterns...),
	}
	a.WHTRate, a.WHTAmount = FindWithholding(t)
	return CompleteAmounts(a)
}

// CompleteAmounts fills total or subtotal from the other two fields.
func CompleteAmounts(a dto.AmountSet) dto.AmountSet {
	if a.Total == "" && a.Subtotal != "" && a.VAT != "" {
		a.Total = AddMoney(a.Subtotal, a.VAT)
	}
	if a.Subtotal == "" && a.Total != "" && a.VAT != "" {
		a.Subtotal = SubMoney(a.Total, a.VAT)
	}
	return a
}

// FirstAmount returns the first non-zero amount captured by the patterns,
// tried in order.
func FirstAmount(text string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[len(loc)-2], loc[len(loc)-1]
			raw := text[start:end]
			if looksLikeID(raw) || strings.HasPrefix(strings.TrimLeft(text[end:], " "), "%") {
				continue
			}
			if v := ParseMoney(raw); v != "" && !IsZeroMoney(v) {
				return v
			}
		}
	}
	return ""
}

// FindWithholding looks for a withholding tax phrase and reads the rate and
// amount printed shortly after it. The rate is "" when none is printed.
func FindWithholding(text string) (rate, amount string) {
	for _, loc := range whtAnchorRe.FindAllStringIndex(text, -1) {
		window := textWindow(text, loc[1])

		amount = ""
		if m := whtLabeledRe.FindStringSubmatch(window); m != nil && !looksLikeID(m[1]) {
			amount = ParseMoney(m[1])
		}
		if amount == "" || IsZeroMoney(amount) {
			if m := whtDecimalRe.FindStringSubmatch(window); m != nil {
				amount = ParseMoney(m[1])
			}
		}
		if amount == "" || IsZeroMoney(amount) {
			continue
		}

		rate = ""
		if m := whtRateRe.FindStringSubmatch(window); m != nil {
			rate = m[1] + "%"
		}
		return rate, amount
	}
	return "", ""
}

func textWindow(text string, start int) string {
	end := min(len(text), start+whtWindowBytes)
	for end < len(text) && end > start && !utf8.RuneStart(text[end]) {
		end--
	}
	window := text[start:end]

	lines := strings.SplitN(window, "\n", whtWindowLines+1)
	if len(lines) > whtWindowLines {
		lines = lines[:whtWindowLines]
	}
	return strings.Join(lines, "\n")
}
