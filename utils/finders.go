package utils

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
)

// PaymentDeductedFromSales is the PEAK payment method for fees that the
// marketplace deducts from the seller's payout.
const PaymentDeductedFromSales = "หักจากยอดขาย"

// HeadOfficeBranch is the branch code of a head office.
const HeadOfficeBranch = "00000"

var (
	taxID13Re = regexp.MustCompile(`\b([0-9]{13})\b`)

	spxTaxIDRe    = regexp.MustCompile(`(?i)Tax\s*ID\s*No\.?\s*[:#：]?\s*([0-9]{13})\b`)
	tiktokTaxIDRe = regexp.MustCompile(`(?i)Tax\s*Registration\s*Number\s*[:#：]?\s*([0-9]{13})\b`)
	labeledTaxRe  = regexp.MustCompile(`(?i)(?:เลขประจำตัวผู้เสียภาษี(?:อากร)?|Tax\s*(?:ID|Registration)\s*(?:No\.?|Number)?)\s*[:#：]?\s*([0-9]{13})\b`)

	headOfficeRe = regexp.MustCompile(`(?i)(?:สำนักงานใหญ่|Head\s*Office)`)
	branchNumRe  = regexp.MustCompile(`(?i)(?:สาขา(?:ที่)?\s*|Branch\s*(?:No\.?|Number)?\s*[:#]?\s*)(\d{1,5})\b`)

	referenceCodeRe    = regexp.MustCompile(`\b(\d{4}-\d{6,9})\b`)
	invoiceWithRefRe   = regexp.MustCompile(`\b([A-Z]{2,}[A-Z0-9\-/_.]{6,})\s+(\d{4}-\d{6,9})\b`)
	invoiceLongRefRe   = regexp.MustCompile(`\b([A-Z]{2,}[A-Z0-9\-/_.]{6,})\s+(\d{2,4}[-/]\d{6,10})\b`)
	invoiceLabeledRe   = regexp.MustCompile(`(?i)(?:Tax\s*Invoice\s*(?:No\.?|Number)?|Invoice\s*(?:No\.?|Number)|Receipt\s*(?:No\.?|Number)|Document\s*(?:No\.?|Number)|Doc\s*No\.?|ใบกำกับภาษีเลขที่|เลขที่(?:เอกสาร|ใบกำกับ(?:ภาษี)?)?)\s*[:#：]?\s*["']?\s*([A-Za-z0-9][A-Za-z0-9\-/_.]{5,})`)
	trailingPunctRe    = regexp.MustCompile(`[,.;:]+$`)

	// Document numbers are printed in upper case; matching them case
	// sensitively keeps words like "Invoice" out of the INV pattern.
	spxDocRe        = regexp.MustCompile(`\b(RCS[A-Z0-9\-/]{10,})\b`)
	spxDocRefRe     = regexp.MustCompile(`\b(RCS[A-Z0-9\-/]{10,})\s+(\d{4})\s*-\s*(\d{7})\b`)
	shopeeDocRe     = regexp.MustCompile(`\b((?:Shopee-)?TI[VR]-[A-Z0-9]+-\d{5}-\d{6}-\d{7,}|TRS[A-Z0-9\-_/]{8,})\b`)
	shopeeDocRefRe  = regexp.MustCompile(`\b((?:Shopee-)?TI[VR]-[A-Z0-9]+-\d{5}-\d{6}-\d{7,}|TRS[A-Z0-9\-_/]{8,})\s+(\d{4}-\d{7})\b`)
	lazadaDocRe     = regexp.MustCompile(`\b(THMPTI\d{16}|(?:LAZ|LZD)[A-Z0-9\-_/.]{6,}|INV[A-Z0-9\-_/.]{6,})\b`)
	lazadaDocRefRe  = regexp.MustCompile(`\b(THMPTI\d{16}|(?:LAZ|LZD)[A-Z0-9\-_/.]{6,})\s+(\d{4}-\d{7})\b`)
	tiktokDocRe     = regexp.MustCompile(`\b(TTSTH\d{14,})\b`)
	tiktokDocRefRe  = regexp.MustCompile(`\b(TTSTH\d{14,})\s+(\d{4}-\d{7})\b`)

	dateENRe        = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+(\d{1,2}),?\s+(\d{4})\b`)
	dateENDayRe     = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?,?\s+(\d{4})\b`)
	dateYMDRe       = regexp.MustCompile(`\b(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})\b`)
	dateDMYRe       = regexp.MustCompile(`\b(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})\b`)
	date8DigitRe    = regexp.MustCompile(`\b(\d{8})\b`)

	sellerIDRe   = regexp.MustCompile(`(?i)(?:Seller\s*ID|Shop\s*ID|Store\s*ID|รหัสร้านค้า)\s*[:#：]?\s*([A-Z0-9_\-]+)`)
	usernameRe   = regexp.MustCompile(`(?i)(?:Username|User\s*name|ชื่อผู้ใช้)\s*[:#：]?\s*([A-Za-z0-9_\-.]+)`)
	sellerCodeRe = regexp.MustCompile(`\b([A-Z0-9]{8,15})\b`)

	paymentMethodRe = regexp.MustCompile(`(?i)(?:\b(EWL\d{2,6}|TRF\d{2,6}|CSH\d{2,6}|BANK\s*TRANSFER|CREDIT\s*CARD|TRANSFER|CASH|CARD|QR)\b|(หักจาก(?:ยอด)?ขาย|โอน|เงินสด))`)
)

var vendorAnchors = map[dto.Platform]string{
	dto.PlatformShopee: "shopee",
	dto.PlatformLazada: "lazada",
	dto.PlatformTikTok: "tiktok",
	dto.PlatformSPX:    "spx",
}

// Date tokens are scored by their distance to the nearest of these words.
var dateAnchorKeywords = []string{
	"invoice date", "tax invoice", "invoice", "receipt", "issue date", "date",
	"วันที่", "วันที", "ออกใบกำกับ", "วันที่ออก",
}

// maxTaxIDAnchorDistance bounds how far (in bytes) a tax ID may sit from
// the vendor's name and still be taken as the vendor's.
const maxTaxIDAnchorDistance = 400

// FindVendorTaxID returns the marketplace's 13-digit tax ID. Only IDs within
// maxTaxIDAnchorDistance of the vendor's name are considered: labeled ones
// first, then the bare 13-digit number closest to the name. Known client
// IDs, IDs labeled as the buyer's and IDs listed in exclude are skipped.
func FindVendorTaxID(text string, platform dto.Platform, exclude ...string) string {
	t := NormalizeText(text)
	anchor := vendorAnchors[platform]
	if anchor == "" {
		return ""
	}
	anchors := keywordPositions(strings.ToLower(t), anchor)
	if len(anchors) == 0 {
		return ""
	}

	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	accept := func(id string, start int) bool {
		return !skip[id] && !IsClientTaxID(id) && !buyerLabeled(t, start) &&
			nearest(start, anchors) <= maxTaxIDAnchorDistance
	}

	var labeled []*regexp.Regexp
	switch platform {
	case dto.PlatformSPX:
		labeled = []*regexp.Regexp{spxTaxIDRe, labeledTaxRe}
	case dto.PlatformTikTok:
		labeled = []*regexp.Regexp{tiktokTaxIDRe, labeledTaxRe}
	case dto.PlatformShopee, dto.PlatformLazada:
		labeled = []*regexp.Regexp{labeledTaxRe}
	}
	for _, re := range labeled {
		for _, loc := range re.FindAllStringSubmatchIndex(t, -1) {
			if id := t[loc[2]:loc[3]]; accept(id, loc[0]) {
				return id
			}
		}
	}

	best, bestDist := "", -1
	for _, loc := range taxID13Re.FindAllStringSubmatchIndex(t, -1) {
		id := t[loc[2]:loc[3]]
		if !accept(id, loc[0]) {
			continue
		}
		if d := nearest(loc[0], anchors); bestDist < 0 || d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

// FindBranch returns "00000" for a head office, the zero padded branch
// number when one is printed, and "" when the document says neither.
func FindBranch(text string) string {
	t := NormalizeText(text)
	if headOfficeRe.MatchString(t) {
		return HeadOfficeBranch
	}
	if m := branchNumRe.FindStringSubmatch(t); m != nil {
		return FormatBranch5(m[1])
	}
	return ""
}

// FormatBranch5 keeps the digits of raw and pads them to five.
func FormatBranch5(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) > 5 {
		return digits[:5]
	}
	return strings.Repeat("0", 5-len(digits)) + digits
}

// FindInvoiceNo looks for a document number, attaching the MMDD-NNNNNNN
// reference code printed next to it when there is one. The platform's own
// number shapes are tried first, then any platform's, then a labeled
// "Invoice No." style field.
func FindInvoiceNo(text string, platform dto.Platform) string {
	t := NormalizeText(text)

	type docPatterns struct{ withRef, bare *regexp.Regexp }
	byPlatform := map[dto.Platform]docPatterns{
		dto.PlatformSPX:    {spxDocRefRe, spxDocRe},
		dto.PlatformShopee: {shopeeDocRefRe, shopeeDocRe},
		dto.PlatformLazada: {lazadaDocRefRe, lazadaDocRe},
		dto.PlatformTikTok: {tiktokDocRefRe, tiktokDocRe},
	}
	order := []dto.Platform{dto.PlatformSPX, dto.PlatformShopee, dto.PlatformLazada, dto.PlatformTikTok}

	if p, ok := byPlatform[platform]; ok {
		if v := matchDocWithRef(t, p.withRef); v != "" {
			return v
		}
		if v := matchDocNearRef(t, p.bare); v != "" {
			return v
		}
	}

	for _, re := range []*regexp.Regexp{invoiceWithRefRe, invoiceLongRefRe} {
		if m := re.FindStringSubmatch(t); m != nil && containsDigit(m[1]) {
			return m[1] + " " + m[2]
		}
	}

	for _, p := range order {
		if v := matchDocWithRef(t, byPlatform[p].withRef); v != "" {
			return v
		}
	}
	for _, p := range order {
		if v := matchDocNearRef(t, byPlatform[p].bare); v != "" {
			return v
		}
	}

	for _, m := range invoiceLabeledRe.FindAllStringSubmatch(t, -1) {
		doc := trailingPunctRe.ReplaceAllString(strings.Trim(m[1], `"'`), "")
		if len(doc) < 6 || !containsDigit(doc) {
			continue
		}
		if ref := ReferenceCodeNear(t, doc); ref != "" && ref != doc {
			return doc + " " + ref
		}
		return doc
	}
	return ""
}

// ReferenceCodeNear finds an MMDD-NNNNNNN code within 80 bytes of doc.
func ReferenceCodeNear(text, doc string) string {
	pos := strings.Index(text, doc)
	if doc == "" || pos < 0 {
		return ""
	}
	start := max(0, pos-80)
	end := min(len(text), pos+len(doc)+80)
	for _, loc := range referenceCodeRe.FindAllStringSubmatchIndex(text[start:end], -1) {
		ref := text[start+loc[2] : start+loc[3]]
		if !strings.Contains(doc, ref) {
			return ref
		}
	}
	return ""
}

func matchDocWithRef(t string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(t)
	if m == nil {
		return ""
	}
	if len(m) == 4 {
		return m[1] + " " + m[2] + "-" + m[3]
	}
	return m[1] + " " + m[2]
}

func matchDocNearRef(t string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(t)
	if m == nil {
		return ""
	}
	if ref := ReferenceCodeNear(t, m[1]); ref != "" {
		return m[1] + " " + ref
	}
	return m[1]
}

type dateCandidate struct {
	pos  int
	date string
}

// FindBestDate returns the most plausible document date as YYYYMMDD.
//
// Every date token in the text (English month names, YYYY-MM-DD, DD/MM/YYYY
// and bare YYYYMMDD) is a candidate. The candidate closest to a date anchor
// word ("invoice date", "วันที่", ...) wins; equal distances go to the
// later date; equal dates go to the earlier position in the text.
func FindBestDate(text string) string {
	t := NormalizeText(text)
	candidates := dateCandidates(t)
	if len(candidates) == 0 {
		return ""
	}

	low := strings.ToLower(t)
	var anchors []int
	for _, kw := range dateAnchorKeywords {
		anchors = append(anchors, keywordPositions(low, kw)...)
	}

	score := func(pos int) int {
		if len(anchors) == 0 {
			return 0
		}
		return nearest(pos, anchors)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := score(candidates[i].pos), score(candidates[j].pos)
		if si != sj {
			return si < sj
		}
		if candidates[i].date != candidates[j].date {
			return candidates[i].date > candidates[j].date
		}
		return candidates[i].pos < candidates[j].pos
	})
	return candidates[0].date
}

func dateCandidates(t string) []dateCandidate {
	var out []dateCandidate
	add := func(re *regexp.Regexp, build func(m []string) string) {
		for _, loc := range re.FindAllStringSubmatchIndex(t, -1) {
			m := make([]string, len(loc)/2)
			for i := range m {
				if loc[2*i] >= 0 {
					m[i] = t[loc[2*i]:loc[2*i+1]]
				}
			}
			if d := build(m); d != "" {
				out = append(out, dateCandidate{pos: loc[0], date: d})
			}
		}
	}

	add(dateENRe, func(m []string) string { return ParseENDate(m[1] + " " + m[2] + ", " + m[3]) })
	add(dateENDayRe, func(m []string) string { return ParseENDate(m[1] + " " + m[2] + " " + m[3]) })
	add(dateYMDRe, func(m []string) string { return ParseDateToYYYYMMDD(m[1] + "-" + m[2] + "-" + m[3]) })
	add(dateDMYRe, func(m []string) string { return ParseDateToYYYYMMDD(m[1] + "/" + m[2] + "/" + m[3]) })
	add(date8DigitRe, func(m []string) string { return ParseDateToYYYYMMDD(m[1]) })
	return out
}

// ExtractSellerInfo pulls the shop's seller ID, username and seller code
// out of a marketplace statement.
func ExtractSellerInfo(text string) dto.SellerInfo {
	t := NormalizeText(text)
	var info dto.SellerInfo

	if m := sellerIDRe.FindStringSubmatch(t); m != nil {
		info.SellerID = m[1]
	}
	if m := usernameRe.FindStringSubmatch(t); m != nil {
		info.Username = strings.TrimRight(m[1], ".")
	}

	for _, m := range sellerCodeRe.FindAllStringSubmatch(t, -1) {
		code := m[1]
		if isDigits(code) || !containsDigit(code) || isDocumentNumber(code) {
			continue
		}
		info.SellerCode = code
		break
	}
	return info
}

var documentPrefixes = []string{"THMPTI", "TTSTH", "RCS", "TRS", "TIV", "TIR"}

func isDocumentNumber(code string) bool {
	for _, p := range documentPrefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// FindPaymentMethod infers how an invoice was paid. Marketplace fee
// documents that mention a deduction map to PaymentDeductedFromSales.
func FindPaymentMethod(text string, platform dto.Platform) string {
	t := NormalizeText(text)

	switch platform {
	case dto.PlatformShopee, dto.PlatformLazada, dto.PlatformTikTok, dto.PlatformSPX:
		if strings.Contains(t, "หักจาก") || strings.Contains(strings.ToLower(t), "deduct") {
			return PaymentDeductedFromSales
		}
	}

	m := paymentMethodRe.FindStringSubmatch(t)
	if m == nil {
		return ""
	}
	if m[2] != "" {
		if strings.HasPrefix(m[2], "หักจาก") {
			return PaymentDeductedFromSales
		}
		return m[2]
	}
	return strings.ReplaceAll(strings.ToUpper(m[1]), " ", "")
}

func keywordPositions(low, kw string) []int {
	var out []int
	for i := 0; ; {
		idx := strings.Index(low[i:], kw)
		if idx < 0 {
			return out
		}
		out = append(out, i+idx)
		i += idx + 1
	}
}

func nearest(pos int, anchors []int) int {
	best := -1
	for _, a := range anchors {
		d := pos - a
		if d < 0 {
			d = -d
		}
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
