package extractor

import (
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/Aashish23092/marketplace-invoice-importer/utils"
)

type platformMarker struct {
	platform dto.Platform
	re       *regexp.Regexp
}

// Document numbers identify the vendor most reliably. SPX is checked
// before Shopee since SPX receipts also mention Shopee.
var docMarkers = []platformMarker{
	{dto.PlatformSPX, regexp.MustCompile(`\bRCS[A-Z0-9\-/]{10,}`)},
	{dto.PlatformTikTok, regexp.MustCompile(`\bTTSTH\d{8,}`)},
	{dto.PlatformLazada, regexp.MustCompile(`\bTHMPTI\d{16}\b`)},
	{dto.PlatformShopee, regexp.MustCompile(`\b(?:Shopee-)?TI[VR]-[A-Z0-9]+-\d{5}-|\bTRS[A-Z0-9\-/]{10,}`)},
}

var nameMarkers = []platformMarker{
	{dto.PlatformSPX, regexp.MustCompile(`(?i)\bSPX\b|Shopee\s*Express|เอสพีเอ็กซ์`)},
	{dto.PlatformTikTok, regexp.MustCompile(`(?i)TikTok|ติ๊กต็อก`)},
	{dto.PlatformLazada, regexp.MustCompile(`(?i)Lazada|ลาซาด้า`)},
	{dto.PlatformShopee, regexp.MustCompile(`(?i)Shopee|ช้อปปี้`)},
}

var (
	wordRe             = regexp.MustCompile(`[A-Za-z]{5,}`)
	filenameSeparators = strings.NewReplacer("_", " ", "-", " ", ".", " ")

	fuzzyNames = []struct {
		platform dto.Platform
		name     string
	}{
		{dto.PlatformTikTok, "tiktok"},
		{dto.PlatformLazada, "lazada"},
		{dto.PlatformShopee, "shopee"},
	}
)

// DetectPlatform guesses which marketplace issued a document from its text
// and, failing that, its file name. OCR misspellings one edit away from a
// vendor name are accepted as a last resort.
func DetectPlatform(text, filename string) dto.Platform {
	t := utils.NormalizeText(text)
	filename = filenameSeparators.Replace(filename)

	for _, m := range docMarkers {
		if m.re.MatchString(t) {
			return m.platform
		}
	}
	for _, src := range []string{filename, t} {
		for _, m := range nameMarkers {
			if m.re.MatchString(src) {
				return m.platform
			}
		}
	}

	for _, word := range wordRe.FindAllString(t+" "+filename, -1) {
		w := strings.ToLower(word)
		for _, n := range fuzzyNames {
			if fuzzy.LevenshteinDistance(w, n.name) <= 1 {
				return n.platform
			}
		}
	}
	return dto.PlatformUnknown
}
