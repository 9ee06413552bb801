package extractor

import (
	"fmt"
	"regexp"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/Aashish23092/marketplace-invoice-importer/utils"
)

var (
	tiktokDocRe  = regexp.MustCompile(`\b(TTSTH\d{8,})\b`)
	tiktokDateRe = regexp.MustCompile(`(?i)(?:Invoice\s*date|Document\s*date|วันที่เอกสาร)\s*[:：\-]?\s*(` + dateToken + `)`)

	tiktokPeriodRe = regexp.MustCompile(`(?i)(?:Billing\s*period|Statement\s*period|Settlement\s*period|Period)\s*[:：]?\s*(` +
		dateToken + `)\s*(?:-|–|~|to)\s*(` + dateToken + `)`)

	tiktokSubtotalRe = utils.AmountAfter(`Sub\s*total\s*\(\s*excluding\s*VAT\s*\)`)
	tiktokVATRe      = utils.AmountAfter(`Total\s*VAT\s*7\s*%`)
	tiktokTotalRe    = utils.AmountAfter(`Total\s*amount\s*\(\s*including\s*VAT\s*\)`)

	tiktokWHTRe = regexp.MustCompile(`(?is)(?:withheld|withholding)\s*tax.*?rate\s*of\s*(?P<rate>\d{1,2})\s*%.*?amounting\s*to\s*(?:฿|THB)?\s*(?P<amount>` + utils.MoneyPattern + `)`)

	// Fee rows print the amount excluding VAT, the VAT and the gross.
	tiktokFeeRowRe = regexp.MustCompile(`(?m)^(.{3,80}?)\s+฿\s*(` + utils.MoneyPattern + `)\s+฿\s*(` + utils.MoneyPattern + `)\s+฿\s*(` + utils.MoneyPattern + `)$`)

	tiktokAdsRe = regexp.MustCompile(`(?i)\b(?:ads|advertising|promotion)\b|โฆษณา`)

	tiktokClientNameRe  = regexp.MustCompile(`(?im)^(?:Bill(?:ed)?\s*to|Client\s*name|Customer\s*name|Buyer\s*name)\s*[:：]?\s*(.{2,120})$`)
	tiktokClientTaxIDRe = regexp.MustCompile(`(?i)(?:Client|Customer|Buyer)\s*Tax\s*(?:ID|Registration\s*Number)\s*[:#：]?\s*([0-9]{13})\b`)
	anyTaxIDRe          = regexp.MustCompile(`\b([0-9]{13})\b`)
)

var tiktokSummaryMarkers = []string{"total", "subtotal", "รวม"}

const (
	tiktokHeader    = "TikTok Shop - Marketplace Service Fees"
	tiktokAdsHeader = "TikTok Shop - Advertising Fees"
)

// ExtractTikTok builds a PEAK row from a TikTok Shop tax invoice.
func ExtractTikTok(text string, opts ...Option) dto.PeakRow {
	o := newOptions(tiktokMaxFeeItems, opts)
	t := utils.NormalizeText(text)

	group, header := groupMarketplace, tiktokHeader
	if tiktokAdsRe.MatchString(t) {
		group, header = groupAdvertising, tiktokAdsHeader
	}

	row := seedRow(t, dto.PlatformTikTok, group)
	var buyerIDs []string
	if id := firstOf(submatch(tiktokClientTaxIDRe, t)); id != "" && id != TikTokTaxID {
		buyerIDs = append(buyerIDs, id)
	}
	row.ETaxID13 = vendorTaxID(t, dto.PlatformTikTok, TikTokTaxID, buyerIDs...)
	row.FBranch5 = branch(t)

	setInvoiceNo(&row, firstOf(
		submatch(tiktokDocRe, t),
		labeledInvoiceNo(t),
		sharedInvoiceNo(t, dto.PlatformTikTok),
	))
	setDocDate(&row, firstOf(
		dateAt(tiktokDateRe, t, utils.ParseAnyDate),
		bestDate(t),
	))

	period := periodText(tiktokPeriodRe, t)
	seller := utils.ExtractSellerInfo(t)

	amounts := mergeAmounts(dto.AmountSet{
		Subtotal: utils.FirstAmount(t, tiktokSubtotalRe),
		VAT:      utils.FirstAmount(t, tiktokVATRe),
		Total:    utils.FirstAmount(t, tiktokTotalRe),
	}, t)
	applyAmounts(&row, amounts)
	row.JPriceType = priceTypeExcludingVAT
	row.OVatRate = vatRate7

	wht := resolveWithholding(t, defaultWHTRate, tiktokWHTRe)
	wht.apply(&row)

	c := composition{
		header:      header,
		fees:        tiktokFees(t, o.maxFeeItems),
		seller:      labeled("Seller ID", seller.SellerID),
		sellerLines: []string{labeled("Seller ID", seller.SellerID), labeled("Username", seller.Username)},
		clientLines: tiktokClientLines(t, row.ETaxID13),
		period:      period,
		amounts:     amounts,
		wht:         wht,
	}
	row.LDescription = c.description()
	row.TNote = c.note()

	finish(&row)
	return row
}

// tiktokClientLines names the billed party. The client's tax ID is only
// listed when it is not the vendor's own.
func tiktokClientLines(t, vendorTaxID string) []string {
	name := firstOf(submatch(tiktokClientNameRe, t))

	clientTaxID := firstOf(submatch(tiktokClientTaxIDRe, t))
	if clientTaxID == "" {
		for _, m := range anyTaxIDRe.FindAllStringSubmatch(t, -1) {
			if m[1] != vendorTaxID && m[1] != TikTokTaxID {
				clientTaxID = m[1]
				break
			}
		}
	}
	if clientTaxID == vendorTaxID {
		clientTaxID = ""
	}
	return []string{labeled("Client", name), labeled("Client Tax ID", clientTaxID)}
}

func tiktokFees(t string, maxItems int) feeBreakdown {
	b := feeBreakdown{
		title: "TikTok Fees",
		line: func(it dto.FeeItem) string {
			return fmt.Sprintf("- %s: ฿%s + VAT ฿%s = ฿%s", it.Name, it.Amount, it.VAT, it.Gross)
		},
	}
	for _, m := range tiktokFeeRowRe.FindAllStringSubmatch(t, -1) {
		if isSummaryLine(m[1], tiktokSummaryMarkers) {
			continue
		}
		amount := utils.ParseMoney(m[2])
		if amount == "" || utils.IsZeroMoney(amount) {
			continue
		}
		b.items = append(b.items, dto.FeeItem{
			No:     fmt.Sprint(len(b.items) + 1),
			Name:   feeName(m[1], 60),
			Amount: amount,
			VAT:    utils.ParseMoney(m[3]),
			Gross:  utils.ParseMoney(m[4]),
		})
		if len(b.items) >= maxItems {
			break
		}
	}
	return b
}
