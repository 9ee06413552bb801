package extractor

import (
	"regexp"
	"strconv"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/Aashish23092/marketplace-invoice-importer/utils"
)

var (
	shopeeFullRefRe = regexp.MustCompile(`\b(TRS[A-Z0-9\-/]{10,})\s+(\d{4}-\d{7})\b`)
	shopeeTIDocRe   = regexp.MustCompile(`\b((?:Shopee-)?TI[VR]-[A-Z0-9]+-\d{5}-\d{6}-\d{7,})\b`)
	shopeeTRSDocRe  = regexp.MustCompile(`\b(TRS[A-Z0-9\-/]{10,})\b`)

	// English labels must open a line so "Due Date" is not read as the
	// document date.
	shopeeDocDateRe = regexp.MustCompile(`(?im)(?:วันที่(?:เอกสาร|ออกเอกสาร)?|^(?:Date\s*(?:of\s*issue)?|Issue\s*date|Document\s*date))\s*[:#：]?\s*` +
		`(\d{1,2}[-/.]\d{1,2}[-/.]\d{4}|\d{4}[-/.]\d{1,2}[-/.]\d{1,2})`)
	shopeeInvoiceDateRe = regexp.MustCompile(`(?i)(?:วันที่ใบกำกับ(?:ภาษี)?|Invoice\s*date|Tax\s*Invoice\s*date)\s*[:#：]?\s*` +
		`(\d{1,2}[-/.]\d{1,2}[-/.]\d{4}|\d{4}[-/.]\d{1,2}[-/.]\d{1,2})`)

	shopeeSellerIDRe = regexp.MustCompile(`(?i)(?:Seller\s*ID|Shop\s*ID|รหัสร้านค้า)\s*[:#：]?\s*([0-9]{8,12})\b`)
	shopeeUsernameRe = regexp.MustCompile(`(?i)(?:Username|Shop\s*name|User\s*name|ชื่อผู้ใช้|ชื่อร้าน)\s*[:#：]?\s*([A-Za-z0-9_\-.]{3,30})`)

	shopeeFeeLineRe     = regexp.MustCompile(`(?m)^(.{10,80}?)\s+(?:฿\s*)?(` + utils.MoneyPattern + `)$`)
	shopeeFeeKeywordsRe = regexp.MustCompile(`(?i)ค่าธรรมเนียม|ค่าบริการ|คอมมิชชั่น|Commission|Service\s*fee|Transaction\s*fee|Platform\s*fee` +
		`|Payment\s*fee|Shipping\s*fee|Marketing\s*fee|Voucher|Coins|Rebate|Discount|Penalty|Withdrawal|Infrastructure`)

	shopeeWHTRe = regexp.MustCompile(`(?:หัก|ภาษี).*?ที่จ่าย.*?(?:อัตรา|ร้อยละ)\s*(?:ร้อยละ\s*)?(?P<rate>[0-9]{1,2})\s*%.*?(?:จำนวน|เป็นเงิน)\s*(?P<amount>` + utils.MoneyPattern + `)`)
)

var shopeeSummaryMarkers = []string{"total", "รวม", "sum", "grand", "including", "vat 7%", "ภาษีมูลค่าเพิ่ม"}

const shopeeHeader = "Shopee - Marketplace Service Fees"

// ExtractShopee builds a PEAK row from a Shopee tax invoice or fee
// statement.
func ExtractShopee(text string, opts ...Option) dto.PeakRow {
	o := newOptions(shopeeMaxFeeItems, opts)
	t := utils.NormalizeText(text)

	row := seedRow(t, dto.PlatformShopee, groupMarketplace)
	row.ETaxID13 = vendorTaxID(t, dto.PlatformShopee, ShopeeTaxID)
	row.FBranch5 = branch(t)

	setInvoiceNo(&row, firstOf(
		func() string { return shopeeFullReference(t) },
		labeledInvoiceNo(t),
		sharedInvoiceNo(t, dto.PlatformShopee),
	))
	setDocDate(&row, firstOf(
		dateAt(shopeeDocDateRe, t, utils.ParseDateToYYYYMMDD),
		dateAt(shopeeInvoiceDateRe, t, utils.ParseDateToYYYYMMDD),
		bestDate(t),
	))

	sellerID, username := shopeeSeller(t)

	amounts := mergeAmounts(dto.AmountSet{}, t)
	applyAmounts(&row, amounts)
	row.JPriceType = priceTypeExcludingVAT
	row.OVatRate = vatRate7

	wht := resolveWithholding(t, defaultWHTRate, shopeeWHTRe)
	wht.apply(&row)

	c := composition{
		header:      shopeeHeader,
		fees:        shopeeFees(t, o.maxFeeItems),
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

// shopeeFullReference returns the document number together with the
// MMDD-NNNNNNN code Shopee prints beside TRS numbers.
func shopeeFullReference(t string) string {
	if m := shopeeFullRefRe.FindStringSubmatch(t); m != nil {
		return m[1] + " " + m[2]
	}
	if m := shopeeTIDocRe.FindStringSubmatch(t); m != nil {
		return m[1]
	}
	if m := shopeeTRSDocRe.FindStringSubmatch(t); m != nil {
		if ref := utils.ReferenceCodeNear(t, m[1]); ref != "" {
			return m[1] + " " + ref
		}
		return m[1]
	}
	return ""
}

func shopeeSeller(t string) (sellerID, username string) {
	sellerID = firstOf(submatch(shopeeSellerIDRe, t))
	username = firstOf(submatch(shopeeUsernameRe, t))
	if sellerID == "" {
		info := utils.ExtractSellerInfo(t)
		sellerID = info.SellerID
		if username == "" {
			username = info.Username
		}
	}
	return sellerID, username
}

func shopeeFees(t string, maxItems int) feeBreakdown {
	b := feeBreakdown{title: "Shopee Fees", line: dashLine}
	for _, m := range shopeeFeeLineRe.FindAllStringSubmatch(t, -1) {
		name := m[1]
		if !shopeeFeeKeywordsRe.MatchString(name) || isSummaryLine(name, shopeeSummaryMarkers) {
			continue
		}
		amount := utils.ParseMoney(m[2])
		if amount == "" || utils.IsZeroMoney(amount) {
			continue
		}
		b.items = append(b.items, dto.FeeItem{
			No:     strconv.Itoa(len(b.items) + 1),
			Name:   feeName(name, 60),
			Amount: amount,
		})
		if len(b.items) >= maxItems {
			break
		}
	}
	return b
}
