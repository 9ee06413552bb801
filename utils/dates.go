package utils

import (
	"strings"
	"time"
)

const yyyymmdd = "20060102"

// Day-first layouts are tried before year-first ones; two digit years come
// last so that "09/12/2025" never parses as year 20.
var numericDateLayouts = []string{
	"2/1/2006", "2-1-2006", "2.1.2006",
	"2006-1-2", "2006/1/2", "2006.1.2",
	"2/1/06", "2-1-06", "2.1.06",
}

var englishDateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan, 2006",
	"Jan. 2, 2006",
}

// ParseDateToYYYYMMDD converts numeric date text (DD/MM/YYYY, YYYY-MM-DD,
// YYYYMMDD and the like) to YYYYMMDD. It returns "" for anything it cannot
// read as a real calendar date.
func ParseDateToYYYYMMDD(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if len(s) == 8 && isDigits(s) {
		return formatIfPlausible(time.Parse(yyyymmdd, s))
	}

	for _, layout := range numericDateLayouts {
		if out := formatIfPlausible(time.Parse(layout, s)); out != "" {
			return out
		}
	}
	return ""
}

// ParseENDate converts English month-name dates ("Dec 9, 2025",
// "9 December 2025") to YYYYMMDD, or "" when the text is not such a date.
func ParseENDate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	for _, layout := range englishDateLayouts {
		if out := formatIfPlausible(time.Parse(layout, s)); out != "" {
			return out
		}
	}
	return ""
}

// ParseAnyDate tries the numeric forms first, then the English ones.
func ParseAnyDate(s string) string {
	if out := ParseDateToYYYYMMDD(s); out != "" {
		return out
	}
	return ParseENDate(s)
}

// ValidYYYYMMDD reports whether s is an 8-digit calendar-valid date.
func ValidYYYYMMDD(s string) bool {
	if len(s) != 8 || !isDigits(s) {
		return false
	}
	_, err := time.Parse(yyyymmdd, s)
	return err == nil
}

// FormatISODate renders YYYYMMDD as YYYY-MM-DD for human readable text.
func FormatISODate(d string) string {
	if len(d) != 8 {
		return d
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:]
}

func formatIfPlausible(t time.Time, err error) string {
	if err != nil {
		return ""
	}
	if t.Year() < 1900 || t.Year() > 2100 {
		return ""
	}
	return t.Format(yyyymmdd)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
