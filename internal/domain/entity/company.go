package entity

import (
	"regexp"
	"strings"
)

const (
	DefaultCategory = "default"
	fallbackTLD     = ".com"
)

var companyDomains = map[string]string{
	"google":    "google.com",
	"amazon":    "amazon.com",
	"microsoft": "microsoft.com",
	"meta":      "meta.com",
	"facebook":  "meta.com",
	"apple":     "apple.com",
	"netflix":   "netflix.com",
	"tesla":     "tesla.com",
	"uber":      "uber.com",
	"airbnb":    "airbnb.com",
	"spotify":   "spotify.com",
	"zoom":      "zoom.us",
	"slack":     "slack.com",
	"twitter":   "x.com",
	"x":         "x.com",

	// Indian IT
	"ltimindtree":   "ltimindtree.com",
	"tcs":           "tcs.com",
	"infosys":       "infosys.com",
	"wipro":         "wipro.com",
	"hcl":           "hcltech.com",
	"tech mahindra": "techmahindra.com",
	"techmahindra":  "techmahindra.com",

	// Indian startups
	"grapevine": "joingrapevineco.com",
	"zomato":    "zomato.com",
	"swiggy":    "swiggy.com",
	"paytm":     "paytm.com",
	"flipkart":  "flipkart.com",
	"ola":       "olacabs.com",
	"razorpay":  "razorpay.com",
	"cred":      "cred.club",
	"phonepe":   "phonepe.com",
	"byju":      "byjus.com",
	"meesho":    "meesho.com",
	"dunzo":     "dunzo.com",
	"zerodha":   "zerodha.com",
}

var companyCategories = map[string]string{
	// Banks
	"icici bank": "bank",
	"icici":      "bank",
	"hdfc bank":  "bank",
	"hdfc":       "bank",
	"kotak":      "bank",
	"axis bank":  "bank",
	"sbi":        "bank",
	"yes bank":   "bank",

	// Services / IT
	"tcs":           "service",
	"infosys":       "service",
	"wipro":         "service",
	"hcl":           "service",
	"tech mahindra": "service",
	"ltimindtree":   "service",
	"cognizant":     "service",

	"accenture": "consulting",
	"deloitte":  "consulting",
	"pwc":       "consulting",
	"kpmg":      "consulting",
	"ey":        "consulting",
	"mckinsey":  "consulting",
	"bcg":       "consulting",
	"bain":      "consulting",

	// Big tech
	"google":    "bigtech",
	"amazon":    "bigtech",
	"microsoft": "bigtech",
	"meta":      "bigtech",
	"apple":     "bigtech",
	"netflix":   "bigtech",
	"uber":      "bigtech",
	"airbnb":    "bigtech",

	// Indian startups
	"swiggy":    "startup",
	"zomato":    "startup",
	"cred":      "startup",
	"razorpay":  "startup",
	"phonepe":   "startup",
	"paytm":     "startup",
	"flipkart":  "startup",
	"meesho":    "startup",
	"zerodha":   "startup",
	"ola":       "startup",
	"dunzo":     "startup",
	"grapevine": "startup",

	// VC / PE
	"elevation capital": "vc",
	"elevation":         "vc",
	"peak xv":           "vc",
	"sequoia":           "vc",
	"accel":             "vc",
	"matrix":            "vc",
	"lightspeed":        "vc",
	"nexus":             "vc",
	"blume":             "vc",
	"kalaari":           "vc",

	// Education
	"mesa school": "edtech",
	"mesa":        "edtech",
	"isb":         "edtech",
	"iim":         "edtech",
	"upgrad":      "edtech",
	"byju":        "edtech",
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// ResolveDomain maps a company or person name to a web domain. Unknown names
// become their lowercase alphanumerics plus ".com" ("LTI Mindtree" -> "ltimindtree.com").
func ResolveDomain(name string) string {
	normalized := normalizeName(name)
	if domain, ok := companyDomains[normalized]; ok {
		return domain
	}
	return nonAlphanumeric.ReplaceAllString(normalized, "") + fallbackTLD
}

// ResolveCategory returns a coarse label such as "bank" or "bigtech", or DefaultCategory.
func ResolveCategory(name string) string {
	if category, ok := companyCategories[normalizeName(name)]; ok {
		return category
	}
	return DefaultCategory
}
