package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyPattern matches an amount as printed on marketplace invoices.
const MoneyPattern = `[0-9][0-9,]*(?:\.[0-9]{1,2})?`

var moneyCleaner = strings.NewReplacer(
	"฿", "",
	"THB", "",
	"บาท", "",
	",", "",
	"—", "-",
	"–", "-",
)

// ParseMoney strips currency marks and thousands separators and returns the
// amount with exactly two decimals. Negative or unreadable input gives "".
func ParseMoney(value string) string {
	d, ok := ParseDecimal(value)
	if !ok {
		return ""
	}
	return d.StringFixed(2)
}

// ParseDecimal is ParseMoney without the formatting step.
func ParseDecimal(value string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(moneyCleaner.Replace(value))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// IsZeroMoney reports whether an amount is missing or zero. Such amounts
// never count as a fee line.
func IsZeroMoney(value string) bool {
	d, ok := ParseDecimal(value)
	return !ok || d.IsZero()
}

// AddMoney returns a+b with two decimals, or "" if either side is missing.
func AddMoney(a, b string) string {
	x, okA := ParseDecimal(a)
	y, okB := ParseDecimal(b)
	if !okA || !okB {
		return ""
	}
	return x.Add(y).StringFixed(2)
}

// SubMoney returns a-b with two decimals. A negative result gives "".
func SubMoney(a, b string) string {
	x, okA := ParseDecimal(a)
	y, okB := ParseDecimal(b)
	if !okA || !okB {
		return ""
	}
	d := x.Sub(y)
	if d.IsNegative() {
		return ""
	}
	return d.StringFixed(2)
}

// looksLikeID rejects long digit runs without a decimal point, which on
// these documents are tax IDs or phone numbers rather than amounts.
func looksLikeID(raw string) bool {
	digits := strings.ReplaceAll(raw, ",", "")
	return !strings.Contains(digits, ".") && len(digits) >= 10
}
