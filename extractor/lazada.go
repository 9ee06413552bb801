package extractor

import (
	"regexp"
	"strings"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/Aashish23092/marketplace-invoice-importer/utils"
)

var (
	lazadaDocRe         = regexp.MustCompile(`\b(THMPTI\d{16})\b`)
	lazadaSellerCodeRe  = regexp.MustCompile(`\b(TH[A-Z0-9]{8,12})\b`)
	lazadaInvoiceDateRe = regexp.MustCompile(`(?i)Invoice\s*Date\s*[:#：]?\s*(\d{4}[-/.]\d{1,2}[-/.]\d{1,2})`)
	lazadaPeriodRe      = regexp.MustCompile(`(?i)Period\s*[:#：]?\s*(\d{4}[-/.]\d{1,2}[-/.]\d{1,2})\s*[-–]\s*(\d{4}[-/.]\d{1,2}[-/.]\d{1,2})`)

	// The summary block at the foot of a Lazada invoice.
	lazadaSubtotalRe = regexp.MustCompile(`(?im)^Total\s+(` + utils.MoneyPattern + `)$`)
	lazadaVATRe      = regexp.MustCompile(`(?im)^7%\s*\(VAT\)\s+(` + utils.MoneyPattern + `)$`)
	lazadaTotalRe    = regexp.MustCompile(`(?im)^Total\s*\(Including\s*Tax\)\s+(` + utils.MoneyPattern + `)$`)

	lazadaFeeLineRe     = regexp.MustCompile(`(?m)^(\d+)\s+(.{3,120}?)\s+(?:฿\s*)?(` + utils.MoneyPattern + `)$`)
	lazadaFeeKeywordsRe = regexp.MustCompile(`(?i)Payment\s*Fee|Commission|Premium\s*Package|LazCoins|Sponsored|Voucher|Marketing|Service|Discovery|Participation|Funded`)

	lazadaWHTRe = regexp.MustCompile(`(?is)หักภาษี\s*ณ?\s*ที่\s*จ่าย.*?อัตรา(?:ร้อยละ)?\s*(?P<rate>\d+)\s*%.*?เป็นจำนวน(?:เงิน)?\s*(?P<amount>` + utils.MoneyPattern + `)\s*บาท`)
)

var lazadaSummaryMarkers = []string{"including tax", "vat", "tax", "ภาษี"}

const lazadaHeader = "Lazada - Marketplace Service Fees"

// ExtractLazada builds a PEAK row from a Lazada marketplace tax invoice.
func ExtractLazada(text string, opts ...Option) dto.PeakRow {
	o := newOptions(lazadaMaxFeeItems, opts)
	t := utils.NormalizeText(text)

	row := seedRow(t, dto.PlatformLazada, groupMarketplace)
	row.ETaxID13 = vendorTaxID(t, dto.PlatformLazada, LazadaTaxID)
	row.FBranch5 = branch(t)

	setInvoiceNo(&row, firstOf(
		submatch(lazadaDocRe, t),
		labeledInvoiceNo(t),
		sharedInvoiceNo(t, dto.PlatformLazada),
	))
	setDocDate(&row, firstOf(
		dateAt(lazadaInvoiceDateRe, t, utils.ParseDateToYYYYMMDD),
		bestDate(t),
	))

	period := periodText(lazadaPeriodRe, t)
	sellerCode := lazadaSellerCode(t)

	amounts := mergeAmounts(dto.AmountSet{
		Subtotal: utils.FirstAmount(t, lazadaSubtotalRe),
		VAT:      utils.FirstAmount(t, lazadaVATRe),
		Total:    utils.FirstAmount(t, lazadaTotalRe),
	}, t)
	applyAmounts(&row, amounts)
	row.JPriceType = priceTypeExcludingVAT
	row.OVatRate = vatRate7

	wht := resolveWithholding(t, defaultWHTRate, lazadaWHTRe)
	wht.apply(&row)

	c := composition{
		header:      lazadaHeader,
		fees:        lazadaFees(t, o.maxFeeItems),
		seller:      labeled("Seller Code", sellerCode),
		sellerLines: []string{labeled("Seller Code", sellerCode)},
		period:      period,
		amounts:     amounts,
		wht:         wht,
	}
	row.LDescription = c.description()
	row.TNote = c.note()

	finish(&row)
	return row
}

// lazadaSellerCode prefers Lazada's TH-prefixed seller codes and falls
// back to any alphanumeric code that is not a document number.
func lazadaSellerCode(t string) string {
	for _, m := range lazadaSellerCodeRe.FindAllStringSubmatch(t, -1) {
		if !strings.HasPrefix(m[1], "THMPTI") {
			return m[1]
		}
	}
	return utils.ExtractSellerInfo(t).SellerCode
}

func lazadaFees(t string, maxItems int) feeBreakdown {
	b := feeBreakdown{
		title: "Lazada Fees",
		line: func(it dto.FeeItem) string {
			return it.No + ". " + it.Name + ": ฿" + it.Amount
		},
	}
	for _, m := range lazadaFeeLineRe.FindAllStringSubmatch(t, -1) {
		name := strings.TrimSpace(m[2])
		if strings.HasPrefix(strings.ToLower(name), "total") || isSummaryLine(name, lazadaSummaryMarkers) {
			continue
		}
		if !lazadaFeeKeywordsRe.MatchString(name) {
			continue
		}
		amount := utils.ParseMoney(m[3])
		if amount == "" || utils.IsZeroMoney(amount) {
			continue
		}
		b.items = append(b.items, dto.FeeItem{No: m[1], Name: feeName(name, 90), Amount: amount})
		if len(b.items) >= maxItems {
			break
		}
	}
	return b
}
