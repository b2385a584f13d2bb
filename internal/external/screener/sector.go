package screener

import "strings"

// sectorKeywords maps company-name fragments to sector labels, used when
// the page carries no sector link. Order matters for overlapping keywords,
// so the table is a slice.
var sectorKeywords = []struct {
	keyword string
	sector  string
}{
	{"automobile", "Automobile"},
	{"auto", "Automobile"},
	{"bank", "Banking"},
	{"finance", "Financial Services"},
	{"nbfc", "Financial Services"},
	{"insurance", "Insurance"},
	{"oil", "Oil & Gas"},
	{"gas", "Oil & Gas"},
	{"petroleum", "Oil & Gas"},
	{"pharma", "Pharmaceuticals"},
	{"drug", "Pharmaceuticals"},
	{"medicine", "Pharmaceuticals"},
	{"health", "Healthcare"},
	{"tech", "Technology"},
	{"software", "Information Technology"},
	{"it service", "Information Technology"},
	{"computer", "Information Technology"},
	{"info", "Information Technology"},
	{"mining", "Mining"},
	{"metal", "Metals"},
	{"steel", "Metals"},
	{"consumption", "Consumer Goods"},
	{"consumer", "Consumer Goods"},
	{"retail", "Retail"},
	{"fmcg", "FMCG"},
	{"cement", "Cement"},
	{"construction", "Construction"},
	{"real estate", "Real Estate"},
	{"property", "Real Estate"},
	{"power", "Power"},
	{"energy", "Energy"},
	{"electric", "Power"},
	{"renewabl", "Renewable Energy"},
	{"solar", "Renewable Energy"},
	{"telecom", "Telecommunications"},
	{"media", "Media & Entertainment"},
	{"entertainment", "Media & Entertainment"},
}

// sectorFromName guesses a sector from the company name, or returns ""
func sectorFromName(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range sectorKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.sector
		}
	}
	return ""
}
