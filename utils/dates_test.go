package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDateToYYYYMMDD(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"09/12/2025", "20251209"},
		{"9/12/2025", "20251209"},
		{"09-12-2025", "20251209"},
		{"09.12.2025", "20251209"},
		{"2025-12-09", "20251209"},
		{"2025/1/5", "20250105"},
		{"2025.12.09", "20251209"},
		{"9.12.25", "20251209"},
		{"20251209", "20251209"},
		{" 2025-12-09 ", "20251209"},
		{"31/02/2025", ""},
		{"20251345", ""},
		{"12345678", ""},
		{"Dec 9, 2025", ""},
		{"abc", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDateToYYYYMMDD(tt.input))
		})
	}
}

func TestParseENDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Dec 9, 2025", "20251209"},
		{"Dec 09, 2025", "20251209"},
		{"December 9, 2025", "20251209"},
		{"9 Dec 2025", "20251209"},
		{"9 December 2025", "20251209"},
		{"Dec 9 2025", "20251209"},
		{"dec  9,  2025", "20251209"},
		{"Feb 30, 2025", ""},
		{"Foo 9, 2025", ""},
		{"2025-12-09", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseENDate(tt.input))
		})
	}
}

func TestParseAnyDate(t *testing.T) {
	assert.Equal(t, "20251209", ParseAnyDate("2025-12-09"))
	assert.Equal(t, "20251209", ParseAnyDate("Dec 9, 2025"))
	assert.Equal(t, "", ParseAnyDate("not a date"))
}

func TestValidYYYYMMDD(t *testing.T) {
	assert.True(t, ValidYYYYMMDD("20240229"))
	assert.False(t, ValidYYYYMMDD("20250229"))
	assert.False(t, ValidYYYYMMDD("2025129"))
	assert.False(t, ValidYYYYMMDD("2025-1-9"))
}

func TestFormatISODate(t *testing.T) {
	assert.Equal(t, "2025-12-01", FormatISODate("20251201"))
	assert.Equal(t, "bad", FormatISODate("bad"))
}
