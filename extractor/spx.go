package extractor

import (
	"regexp"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/Aashish23092/marketplace-invoice-importer/utils"
)

var (
	spxReceiptNoRe = regexp.MustCompile(`(?i)(?:เลขที่|No\.?)\s*[:#：]?\s*(RCS[A-Z0-9\-/]+)`)
	spxFullRefRe   = regexp.MustCompile(`\b(RCS[A-Z0-9\-/]{10,})\s+(\d{4})\s*-\s*(\d{7})\b`)
	spxRefCodeRe   = regexp.MustCompile(`\b(\d{4})\s*-\s*(\d{7})\b`)
	spxDateRe      = regexp.MustCompile(`(?i)(?:วันที่(?:เอกสาร)?|Date)\s*[:#：]?\s*(` + dateToken + `)`)

	spxSellerIDRe = regexp.MustCompile(`(?i)Seller\s*ID\s*[:#：]?\s*(\d{8,12})\b`)
	spxUsernameRe = regexp.MustCompile(`(?i)Username\s*[:#：]?\s*([A-Za-z0-9_\-]+)`)

	spxTotalPatterns = []*regexp.Regexp{
		utils.AmountAfter(`รวม\s*ทั้ง\s*สิ้น|จำนวนเงินรวม\s*\(?\s*รวม\s*(?:ภาษี(?:มูลค่าเพิ่ม)?|VAT)\s*\)?|Total\s*(?:amount)?\s*\(?\s*(?:including|incl\.?)\s*VAT\s*\)?|Grand\s*Total`),
		utils.AmountAfter(`จำนวนเงินรวม|Total\s*amount`),
	}
	spxSubtotalRe = utils.AmountAfter(`ก่อน\s*ภาษี|ยอดรวม\s*\(?\s*ไม่รวม\s*(?:ภาษี|VAT)\s*\)?|Sub\s*total\s*\(?\s*(?:excluding|excl\.?)\s*VAT\s*\)?|Total\s*excluding\s*VAT`)
	spxVATRe      = utils.AmountAfter(`ภาษีมูลค่าเพิ่ม(?:\s*7\s*%)?|\bVAT(?:\s*@?\s*7\s*%)?`)

	spxWHTThaiRe = regexp.MustCompile(`หักภาษีเงินได้\s*ณ\s*ที่\s*จ่าย(?:ใน)?อัตรา(?:ร้อย)?ละ\s*(?P<rate>\d+)\s*%\s*เป็นจำนวนเงิน\s*(?P<amount>` + utils.MoneyPattern + `)`)
	spxWHTEngRe  = regexp.MustCompile(`(?is)deducted\s+(?P<rate>\d+)\s*%\s+withholding\s+tax.*?\bat\s+(?P<amount>` + utils.MoneyPattern + `)\s+THB\b`)

	spxFeeLineRe     = regexp.MustCompile(`(?m)^(.{3,80}?)\s+(?:฿\s*)?(` + utils.MoneyPattern + `)$`)
	spxFeeKeywordsRe = regexp.MustCompile(`(?i)Shipping|Delivery|Pick\s*-?\s*up|Return|COD|Service\s*fee|ค่าขนส่ง|ค่าจัดส่ง|ค่าบริการ`)
	spxTrailingNumRe = regexp.MustCompile(`(?:\s+[0-9][0-9,]*(?:\.[0-9]+)?)+$`)
)

var spxSummaryMarkers = []string{"total", "รวม", "vat", "ภาษี", "grand"}

const spxHeader = "SPX Express - Shipping Service Fees"

// ExtractSPX builds a PEAK row from an SPX Express receipt. SPX is the one
// vendor whose receipts may carry no VAT at all.
func ExtractSPX(text string, opts ...Option) dto.PeakRow {
	o := newOptions(spxMaxFeeItems, opts)
	t := utils.NormalizeText(text)

	row := seedRow(t, dto.PlatformSPX, groupMarketplace)
	row.ETaxID13 = vendorTaxID(t, dto.PlatformSPX, SPXTaxID)
	row.FBranch5 = branch(t)

	setInvoiceNo(&row, firstOf(
		func() string { return spxFullReference(t) },
		labeledInvoiceNo(t),
		sharedInvoiceNo(t, dto.PlatformSPX),
	))
	setDocDate(&row, firstOf(
		dateAt(spxDateRe, t, utils.ParseAnyDate),
		bestDate(t),
	))

	sellerID := firstOf(submatch(spxSellerIDRe, t))
	username := firstOf(submatch(spxUsernameRe, t))
	if sellerID == "" && username == "" {
		info := utils.ExtractSellerInfo(t)
		sellerID, username = info.SellerID, info.Username
	}

	amounts := mergeAmounts(dto.AmountSet{
		Subtotal: utils.FirstAmount(t, spxSubtotalRe),
		VAT:      utils.FirstAmount(t, spxVATRe),
		Total:    utils.FirstAmount(t, spxTotalPatterns...),
	}, t)
	applyAmounts(&row, amounts)
	if amounts.VAT == "" {
		row.JPriceType = priceTypeNoVAT
		row.OVatRate = vatRateNone
	} else {
		row.JPriceType = priceTypeExcludingVAT
		row.OVatRate = vatRate7
	}

	wht := resolveWithholding(t, spxDefaultWHTRate, spxWHTThaiRe, spxWHTEngRe)
	wht.apply(&row)

	c := composition{
		header:      spxHeader,
		fees:        spxFees(t, o.maxFeeItems),
		seller:      labeled("Seller", sellerID),
		sellerLines: []string{labeled("Seller ID", sellerID), labeled("Username", username)},
		amounts:     amounts,
		wht:         wht,
	}
	row.LDescription = c.description()
	row.TNote = c.note()

	finish(&row)
	return row
}

// spxFullReference joins the RCS receipt number with its MMDD-NNNNNNN code,
// which OCR often splits across lines or pads around the dash.
func spxFullReference(t string) string {
	if m := spxFullRefRe.FindStringSubmatch(t); m != nil {
		return m[1] + " " + m[2] + "-" + m[3]
	}
	m := spxReceiptNoRe.FindStringSubmatchIndex(t)
	if m == nil {
		return ""
	}
	doc := t[m[2]:m[3]]
	end := min(len(t), m[3]+100)
	if ref := spxRefCodeRe.FindStringSubmatch(t[m[3]:end]); ref != nil {
		return doc + " " + ref[1] + "-" + ref[2]
	}
	return doc
}

func spxFees(t string, maxItems int) feeBreakdown {
	b := feeBreakdown{title: "SPX Fees", line: dashLine}
	for _, m := range spxFeeLineRe.FindAllStringSubmatch(t, -1) {
		name := spxTrailingNumRe.ReplaceAllString(m[1], "")
		if !spxFeeKeywordsRe.MatchString(name) || isSummaryLine(name, spxSummaryMarkers) {
			continue
		}
		amount := utils.ParseMoney(m[2])
		if amount == "" || utils.IsZeroMoney(amount) {
			continue
		}
		b.items = append(b.items, dto.FeeItem{Name: feeName(name, 60), Amount: amount})
		if len(b.items) >= maxItems {
			break
		}
	}
	return b
}
