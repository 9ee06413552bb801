package dto

import "strings"

type Platform string

const (
	PlatformShopee  Platform = "Shopee"
	PlatformLazada  Platform = "Lazada"
	PlatformTikTok  Platform = "TikTok"
	PlatformSPX     Platform = "SPX"
	PlatformUnknown Platform = ""
)

// ParsePlatform maps a user supplied platform name to a Platform.
func ParsePlatform(s string) Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shopee":
		return PlatformShopee
	case "lazada":
		return PlatformLazada
	case "tiktok", "tiktok shop", "tiktokshop":
		return PlatformTikTok
	case "spx", "spx express":
		return PlatformSPX
	}
	return PlatformUnknown
}

// AmountSet holds the amounts found in one document. Each field is a
// two-decimal money string or "".
type AmountSet struct {
	Subtotal  string `json:"subtotal"`
	VAT       string `json:"vat"`
	Total     string `json:"total"`
	WHTRate   string `json:"wht_rate"`
	WHTAmount string `json:"wht_amount"`
}

// SellerInfo identifies the shop on the marketplace side.
type SellerInfo struct {
	SellerID   string `json:"seller_id"`
	Username   string `json:"username"`
	SellerCode string `json:"seller_code"`
}

// FeeItem is one line of a vendor fee breakdown.
type FeeItem struct {
	No     string `json:"no,omitempty"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
	VAT    string `json:"vat,omitempty"`
	Gross  string `json:"gross,omitempty"`
}

type TextSource string

const (
	SourcePlainText TextSource = "text"
	SourcePDFText   TextSource = "pdf_text"
	SourceOCR       TextSource = "ocr"
)

// SourceDocument is one input handed to the processing service.
type SourceDocument struct {
	Filename string
	Data     []byte
	Text     string
	Password string
	Platform Platform
}

// DocumentQuality describes how the text of a document was obtained.
type DocumentQuality struct {
	Source        TextSource `json:"source"`
	OcrConfidence float64    `json:"ocr_confidence,omitempty"`
	TextLength    int        `json:"text_length"`
	QRDecoded     bool       `json:"qr_decoded,omitempty"`
}
