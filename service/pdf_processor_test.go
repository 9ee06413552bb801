package service

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
)

func TestJoinRow(t *testing.T) {
	t.Run("gap becomes a space", func(t *testing.T) {
		row := []pdf.Text{
			{S: "Total", X: 10, W: 25, FontSize: 10},
			{S: "1,070.00", X: 60, W: 40, FontSize: 10},
		}
		assert.Equal(t, "Total 1,070.00", joinRow(row))
	})

	t.Run("touching glyphs stay joined", func(t *testing.T) {
		row := []pdf.Text{
			{S: "TH", X: 10, W: 10, FontSize: 10},
			{S: "MPTI", X: 20, W: 20, FontSize: 10},
		}
		assert.Equal(t, "THMPTI", joinRow(row))
	})

	t.Run("runs are ordered by position", func(t *testing.T) {
		row := []pdf.Text{
			{S: "B", X: 50, W: 5, FontSize: 10},
			{S: "A", X: 10, W: 5, FontSize: 10},
		}
		assert.Equal(t, "A B", joinRow(row))
	})
}

func TestExtractTextRejectsNonPDF(t *testing.T) {
	_, err := NewPDFProcessor().ExtractText([]byte("plain text"), "")
	assert.Error(t, err)
}
