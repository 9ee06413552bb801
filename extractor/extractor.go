// Package extractor turns the text of one marketplace invoice into a PEAK
// A-U row. Every extractor is a pure function of its input text.
package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/Aashish23092/marketplace-invoice-importer/utils"
)

// Tax IDs of the marketplaces, used when the document does not print one.
const (
	ShopeeTaxID = "0105558019581"
	LazadaTaxID = "0105555040244"
	TikTokTaxID = "0105566214176"
	SPXTaxID    = "0105561164871"
)

const (
	groupMarketplace = "Marketplace Expense"
	groupAdvertising = "Advertising Expense"

	vatRate7    = "7%"
	vatRateNone = "NO"

	// PEAK price types: 1 = amounts exclude VAT, 3 = no VAT.
	priceTypeExcludingVAT = "1"
	priceTypeNoVAT        = "3"

	pndCorporate = "53"

	defaultWHTRate = "3%"
	// SPX shipping is a transport service, withheld at 1%.
	spxDefaultWHTRate = "1%"
)

// Default fee breakdown caps.
const (
	shopeeMaxFeeItems = 8
	lazadaMaxFeeItems = 10
	tiktokMaxFeeItems = 10
	spxMaxFeeItems    = 8
)

type options struct {
	maxFeeItems int
}

// Option customises an extractor call.
type Option func(*options)

// WithMaxFeeItems caps the itemized fee breakdown. Values below 1 keep the
// vendor default.
func WithMaxFeeItems(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxFeeItems = n
		}
	}
}

func newOptions(defaultMaxFeeItems int, opts []Option) options {
	o := options{maxFeeItems: defaultMaxFeeItems}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Extract runs the extractor for platform.
func Extract(platform dto.Platform, text string, opts ...Option) (dto.PeakRow, error) {
	if !utf8.ValidString(text) {
		return dto.PeakRow{}, dto.ErrInvalidText
	}

	switch platform {
	case dto.PlatformShopee:
		return ExtractShopee(text, opts...), nil
	case dto.PlatformLazada:
		return ExtractLazada(text, opts...), nil
	case dto.PlatformTikTok:
		return ExtractTikTok(text, opts...), nil
	case dto.PlatformSPX:
		return ExtractSPX(text, opts...), nil
	}
	return dto.PeakRow{}, fmt.Errorf("%w: %q", dto.ErrUnsupportedPlatform, platform)
}

// resolver is one step of a field's fallback chain.
type resolver func() string

// firstOf runs the resolvers in order and returns the first non-empty value.
func firstOf(chain ...resolver) string {
	for _, r := range chain {
		if v := r(); v != "" {
			return v
		}
	}
	return ""
}

func constant(v string) resolver {
	return func() string { return v }
}

// submatch resolves to the trimmed first capture group of re.
func submatch(re *regexp.Regexp, text string) resolver {
	return func() string {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			return ""
		}
		return strings.TrimSpace(m[1])
	}
}

// dateAt parses the date captured by re with parse.
func dateAt(re *regexp.Regexp, text string, parse func(string) string) resolver {
	return func() string {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if d := parse(m[1]); d != "" {
				return d
			}
		}
		return ""
	}
}

var invoiceNoFieldRe = regexp.MustCompile(`(?i)Invoice\s*No\.?\s*[:#：]?\s*([A-Z0-9][A-Z0-9\-/]{7,39})`)

// labeledInvoiceNo resolves a value printed after "Invoice No.".
func labeledInvoiceNo(text string) resolver {
	return func() string {
		for _, m := range invoiceNoFieldRe.FindAllStringSubmatch(text, -1) {
			if strings.ContainsAny(m[1], "0123456789") {
				return m[1]
			}
		}
		return ""
	}
}

func bestDate(text string) resolver {
	return func() string { return utils.FindBestDate(text) }
}

func sharedInvoiceNo(text string, platform dto.Platform) resolver {
	return func() string { return utils.FindInvoiceNo(text, platform) }
}

func seedRow(text string, platform dto.Platform, group string) dto.PeakRow {
	return dto.PeakRow{
		DVendorCode:    VendorCode(utils.FindClientTaxID(text), platform),
		UGroup:         group,
		QPaymentMethod: utils.FindPaymentMethod(text, platform),
		MQty:           "1",
	}
}

// vendorTaxID falls back to the marketplace's registered ID. Buyer IDs in
// exclude are never taken for the vendor's.
func vendorTaxID(text string, platform dto.Platform, known string, exclude ...string) string {
	return firstOf(
		func() string { return utils.FindVendorTaxID(text, platform, exclude...) },
		constant(known),
	)
}

func branch(text string) string {
	return firstOf(
		func() string { return utils.FindBranch(text) },
		constant(utils.HeadOfficeBranch),
	)
}

// setInvoiceNo keeps the reference and invoice number identical.
func setInvoiceNo(row *dto.PeakRow, no string) {
	row.GInvoiceNo = no
	row.CReference = no
}

// setDocDate keeps the document, invoice and tax purchase dates identical.
func setDocDate(row *dto.PeakRow, date string) {
	row.BDocDate = date
	row.HInvoiceDate = date
	row.ITaxPurchaseDate = date
}

// mergeAmounts fills whatever the vendor's own patterns missed from the
// generic amount extractor. Withholding is resolved separately.
func mergeAmounts(strict dto.AmountSet, text string) dto.AmountSet {
	if strict.Subtotal == "" || strict.VAT == "" || strict.Total == "" {
		generic := utils.ExtractAmounts(text)
		if strict.Subtotal == "" {
			strict.Subtotal = generic.Subtotal
		}
		if strict.VAT == "" {
			strict.VAT = generic.VAT
		}
		if strict.Total == "" {
			strict.Total = generic.Total
		}
	}
	strict.WHTRate, strict.WHTAmount = "", ""
	return utils.CompleteAmounts(strict)
}

func applyAmounts(row *dto.PeakRow, a dto.AmountSet) {
	row.MQty = "1"
	row.NUnitPrice = firstOf(constant(a.Subtotal), constant(a.Total))
	row.RPaidAmount = firstOf(constant(a.Total), constant(a.Subtotal))
}

type withholding struct {
	rate   string
	amount string
}

// resolveWithholding tries the vendor's own phrasing first. Each pattern
// must name its groups "rate" and "amount".
func resolveWithholding(text, defaultRate string, patterns ...*regexp.Regexp) withholding {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount := utils.ParseMoney(m[re.SubexpIndex("amount")])
		if amount == "" || utils.IsZeroMoney(amount) {
			continue
		}
		w := withholding{rate: defaultRate, amount: amount}
		if r := m[re.SubexpIndex("rate")]; r != "" {
			w.rate = r + "%"
		}
		return w
	}

	rate, amount := utils.FindWithholding(text)
	if amount == "" {
		return withholding{}
	}
	if rate == "" {
		rate = defaultRate
	}
	return withholding{rate: rate, amount: amount}
}

func (w withholding) apply(row *dto.PeakRow) {
	if w.amount == "" {
		return
	}
	row.PWht = w.amount
	row.SPnd = pndCorporate
}

// finish applies the rules shared by every marketplace: fees are deducted
// from the seller's payout and the account code is mapped downstream.
func finish(row *dto.PeakRow) {
	row.QPaymentMethod = utils.PaymentDeductedFromSales
	row.KAccount = ""
}

// dateToken matches the numeric and English date forms vendors print.
const dateToken = `(?:[A-Za-z]{3,9}\.?\s+\d{1,2},?\s+\d{4}|\d{1,2}\s+[A-Za-z]{3,9}\.?,?\s+\d{4}|\d{4}[-/.]\d{1,2}[-/.]\d{1,2}|\d{1,2}[-/.]\d{1,2}[-/.]\d{4})`

// periodText renders a billing period captured by re's two groups as
// "Period: YYYY-MM-DD - YYYY-MM-DD". Unparseable ends are kept verbatim.
func periodText(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	ends := make([]string, 2)
	for i, raw := range m[1:3] {
		ends[i] = strings.TrimSpace(raw)
		if d := utils.ParseAnyDate(ends[i]); d != "" {
			ends[i] = utils.FormatISODate(d)
		}
	}
	return "Period: " + ends[0] + " - " + ends[1]
}
