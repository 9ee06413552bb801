package extractor

import (
	"github.com/Aashish23092/marketplace-invoice-importer/dto"
	"github.com/Aashish23092/marketplace-invoice-importer/utils"
)

// PEAK contact codes of each marketplace, per importing company.
var contactCodes = map[string]map[dto.Platform]string{
	utils.ClientRabbit: {
		dto.PlatformShopee: "C00395",
		dto.PlatformLazada: "C00411",
		dto.PlatformTikTok: "C00562",
		dto.PlatformSPX:    "C00563",
	},
	utils.ClientSHD: {
		dto.PlatformShopee: "C00888",
		dto.PlatformLazada: "C01132",
		dto.PlatformTikTok: "C01246",
		dto.PlatformSPX:    "C01133",
	},
	utils.ClientTopOne: {
		dto.PlatformShopee: "C00020",
		dto.PlatformLazada: "C00025",
		dto.PlatformTikTok: "C00051",
		dto.PlatformSPX:    "C00038",
	},
}

// VendorCode returns the PEAK contact code the client keeps for the
// platform, or the platform name when the client is not known.
func VendorCode(clientTaxID string, platform dto.Platform) string {
	if code := contactCodes[clientTaxID][platform]; code != "" {
		return code
	}
	return string(platform)
}
