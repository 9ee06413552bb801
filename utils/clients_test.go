package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindClientTaxID(t *testing.T) {
	assert.Equal(t, ClientRabbit, FindClientTaxID("Shopee 0105558019581\nBill to 0105561071873"))
	assert.Equal(t, ClientTopOne, FindClientTaxID("เลขประจำตัวผู้เสียภาษี 0105565027615"))
	assert.Equal(t, "", FindClientTaxID("Tax ID: 0105558019581"))
	assert.Equal(t, "", FindClientTaxID(""))
}

func TestIsClientTaxID(t *testing.T) {
	assert.True(t, IsClientTaxID(ClientSHD))
	assert.False(t, IsClientTaxID("0105558019581"))
}

func TestBuyerLabeled(t *testing.T) {
	text := "ลูกค้า เลขประจำตัวผู้เสียภาษี 0105500000001\nLazada Tax ID 0105555040244"
	assert.True(t, buyerLabeled(text, strings.Index(text, "0105500000001")))
	assert.False(t, buyerLabeled(text, strings.Index(text, "0105555040244")))
	assert.False(t, buyerLabeled(text, 0))
}
