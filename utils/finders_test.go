package utils

import (
	"strings"
	"testing"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/stretchr/testify/assert"
)

func TestFindVendorTaxID(t *testing.T) {
	t.Run("labeled thai field", func(t *testing.T) {
		text := `
			Shopee (Thailand) Co., Ltd.
			เลขประจำตัวผู้เสียภาษี 0105558019581
			Customer Tax ID 0105563022918
		`
		assert.Equal(t, "0105558019581", FindVendorTaxID(text, dto.PlatformShopee))
	})

	t.Run("excluded buyer id is skipped", func(t *testing.T) {
		text := "Bill to: Tax ID: 0105563022918\nShopee (Thailand) Tax ID: 0105558019581"
		assert.Equal(t, "0105558019581", FindVendorTaxID(text, dto.PlatformShopee, "0105563022918"))
	})

	t.Run("tiktok registration number", func(t *testing.T) {
		text := "TikTok Shop (Thailand) Ltd.\nTax Registration Number: 0105566214176"
		assert.Equal(t, "0105566214176", FindVendorTaxID(text, dto.PlatformTikTok))
	})

	t.Run("spx tax id no", func(t *testing.T) {
		text := "SPX Express (Thailand) Co., Ltd.\nTax ID No. 0105561164871"
		assert.Equal(t, "0105561164871", FindVendorTaxID(text, dto.PlatformSPX))
	})

	t.Run("closest to vendor name", func(t *testing.T) {
		text := "Bill to ACME 0105563022918\n" + strings.Repeat("filler line\n", 10) + "Lazada Limited 0105555040244"
		assert.Equal(t, "0105555040244", FindVendorTaxID(text, dto.PlatformLazada))
	})

	t.Run("known client printed first", func(t *testing.T) {
		text := "Bill to: Rabbit Co., Ltd.\nTax ID: 0105561071873\nShopee (Thailand) Co., Ltd.\nTax ID: 0105558019581"
		assert.Equal(t, "0105558019581", FindVendorTaxID(text, dto.PlatformShopee))
	})

	t.Run("buyer labeled id is skipped", func(t *testing.T) {
		text := "Customer Tax ID No. 0105500000001\nSPX Express (Thailand) Co., Ltd.\nTax ID No. 0105561164871"
		assert.Equal(t, "0105561164871", FindVendorTaxID(text, dto.PlatformSPX))
	})

	t.Run("labeled id far from vendor name", func(t *testing.T) {
		text := "Lazada Limited\n" + strings.Repeat("filler line\n", 40) + "Tax ID: 0105500000001"
		assert.Equal(t, "", FindVendorTaxID(text, dto.PlatformLazada))
	})

	t.Run("only client ids", func(t *testing.T) {
		assert.Equal(t, "", FindVendorTaxID("Lazada\nTax ID: 0105563022918", dto.PlatformLazada))
	})

	t.Run("no vendor context", func(t *testing.T) {
		assert.Equal(t, "", FindVendorTaxID("0105555040244", dto.PlatformLazada))
		assert.Equal(t, "", FindVendorTaxID("Lazada", dto.PlatformLazada))
	})
}

func TestFindBranch(t *testing.T) {
	assert.Equal(t, "00000", FindBranch("บริษัท ช้อปปี้ (ประเทศไทย) จำกัด (สำนักงานใหญ่)"))
	assert.Equal(t, "00000", FindBranch("Head Office"))
	assert.Equal(t, "00012", FindBranch("Branch No. 12"))
	assert.Equal(t, "00003", FindBranch("สาขาที่ 3"))
	assert.Equal(t, "", FindBranch("no branch here"))
}

func TestFormatBranch5(t *testing.T) {
	assert.Equal(t, "00001", FormatBranch5("1"))
	assert.Equal(t, "12345", FormatBranch5("123456"))
	assert.Equal(t, "", FormatBranch5("abc"))
}

func TestFindInvoiceNo(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		platform dto.Platform
		expected string
	}{
		{"lazada thmpti", "Invoice No: THMPTI0123456789012345", dto.PlatformLazada, "THMPTI0123456789012345"},
		{"shopee trs with reference on next line", "No. TRSPEMKP00-00000-25\n1203-0012589", dto.PlatformShopee, "TRSPEMKP00-00000-25 1203-0012589"},
		{"shopee tiv", "Shopee-TIV-ABC123-00001-251209-0001234", dto.PlatformShopee, "Shopee-TIV-ABC123-00001-251209-0001234"},
		{"spx reference with spaced dash", "RCSPXSPB00-00000-25 1205 - 0012345", dto.PlatformSPX, "RCSPXSPB00-00000-25 1205-0012345"},
		{"tiktok", "Invoice number TTSTH2025120900012345", dto.PlatformTikTok, "TTSTH2025120900012345"},
		{"other platform shape", "TTSTH2025120900012345", dto.PlatformUnknown, "TTSTH2025120900012345"},
		{"labeled document number", "Document No: DOC-889900", dto.PlatformUnknown, "DOC-889900"},
		{"labeled value needs a digit", "Invoice No: ABCDEFGH", dto.PlatformUnknown, ""},
		{"nothing", "hello world", dto.PlatformShopee, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindInvoiceNo(tt.text, tt.platform))
		})
	}
}

func TestFindBestDate(t *testing.T) {
	t.Run("closest to anchor wins", func(t *testing.T) {
		assert.Equal(t, "20251209", FindBestDate("Invoice date: 2025-12-09\nDue 2025-12-31"))
	})

	t.Run("without anchors the latest date wins", func(t *testing.T) {
		assert.Equal(t, "20251231", FindBestDate("Period 01/12/2025 to 31/12/2025"))
	})

	t.Run("equal distance goes to the later date", func(t *testing.T) {
		// both dates start eleven bytes away from "date"
		assert.Equal(t, "20251205", FindBestDate("2025-12-01 date xxxxx 2025-12-05"))
	})

	t.Run("english month names", func(t *testing.T) {
		assert.Equal(t, "20251209", FindBestDate("Invoice Date Dec 9, 2025"))
	})

	t.Run("bare yyyymmdd", func(t *testing.T) {
		assert.Equal(t, "20251209", FindBestDate("วันที่ 20251209"))
	})

	t.Run("invalid calendar dates are ignored", func(t *testing.T) {
		assert.Equal(t, "20250101", FindBestDate("Date 31/02/2025 01/01/2025"))
	})

	t.Run("no date", func(t *testing.T) {
		assert.Equal(t, "", FindBestDate("no dates here"))
	})
}

func TestExtractSellerInfo(t *testing.T) {
	info := ExtractSellerInfo("Seller ID: 426162640\nUsername: xiaomi.thailand\nSeller Code THA1B2C3D4")
	assert.Equal(t, "426162640", info.SellerID)
	assert.Equal(t, "xiaomi.thailand", info.Username)
	assert.Equal(t, "THA1B2C3D4", info.SellerCode)

	info = ExtractSellerInfo("THMPTI0123456789012345 RCSPXSPB0000 12345678")
	assert.Equal(t, dto.SellerInfo{}, info)
}

func TestFindPaymentMethod(t *testing.T) {
	assert.Equal(t, PaymentDeductedFromSales, FindPaymentMethod("ยอดนี้หักจากยอดขาย", dto.PlatformShopee))
	assert.Equal(t, PaymentDeductedFromSales, FindPaymentMethod("Fees are deducted from your payout", dto.PlatformLazada))
	assert.Equal(t, "BANKTRANSFER", FindPaymentMethod("Paid by bank transfer", dto.PlatformUnknown))
	assert.Equal(t, "EWL001", FindPaymentMethod("Method EWL001", dto.PlatformUnknown))
	assert.Equal(t, "", FindPaymentMethod("", dto.PlatformUnknown))
}
