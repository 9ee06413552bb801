package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAmounts(t *testing.T) {
	text := `
		Subtotal 1,000.00
		VAT 7% 70.00
		Grand Total 1,070.00
		หักภาษี ณ ที่จ่าย 3% จำนวน 30.00 บาท
	`

	a := ExtractAmounts(text)

	assert.Equal(t, "1000.00", a.Subtotal)
	assert.Equal(t, "70.00", a.VAT)
	assert.Equal(t, "1070.00", a.Total)
	assert.Equal(t, "3%", a.WHTRate)
	assert.Equal(t, "30.00", a.WHTAmount)
}

func TestExtractAmountsDerivesMissingTotals(t *testing.T) {
	a := ExtractAmounts("Subtotal: 500.00\nVAT: 35.00")
	assert.Equal(t, "535.00", a.Total)

	a = ExtractAmounts("Grand Total 107.00\nVAT 7.00")
	assert.Equal(t, "100.00", a.Subtotal)
	assert.Equal(t, "7.00", a.VAT)
}

func TestExtractAmountsNeverGuessesVAT(t *testing.T) {
	a := ExtractAmounts("Subtotal 1,000.00")
	assert.Equal(t, "1000.00", a.Subtotal)
	assert.Empty(t, a.VAT)
	assert.Empty(t, a.Total)
}

func TestExtractAmountsIgnoresRatesAndIDs(t *testing.T) {
	a := ExtractAmounts("VAT 7% (included)\nVAT 0105558019581")
	assert.Empty(t, a.VAT)
}

func TestExtractAmountsStrictLabels(t *testing.T) {
	a := ExtractAmounts("Subtotal (excluding VAT) ฿1,000.00\nTotal VAT 7% ฿70.00\nTotal amount (including VAT) ฿1,070.00")
	assert.Equal(t, "1000.00", a.Subtotal)
	assert.Equal(t, "70.00", a.VAT)
	assert.Equal(t, "1070.00", a.Total)
}

func TestExtractAmountsEmpty(t *testing.T) {
	assert.Equal(t, "", ExtractAmounts("").Total)
	assert.Equal(t, "", ExtractAmounts("no numbers").Subtotal)
}

func TestFindWithholding(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		rate   string
		amount string
	}{
		{"english with baht", "Withholding Tax 3% ฿30.00", "3%", "30.00"},
		{"withheld tax phrase", "Withheld tax at the rate of 3% amounting to ฿1,234.56", "3%", "1234.56"},
		{"thai", "หักภาษีเงินได้ ณ ที่จ่ายอัตราร้อยละ 1 % เป็นจำนวนเงิน 12.50 บาท", "1%", "12.50"},
		{"no rate", "WHT: 45.00", "", "45.00"},
		{"zero amount", "WHT: 0.00", "", ""},
		{"anchor without amount", "Withholding Tax certificate\nissued separately", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, amount := FindWithholding(NormalizeText(tt.text))
			assert.Equal(t, tt.rate, rate)
			assert.Equal(t, tt.amount, amount)
		})
	}
}
