package trend

import "strings"

// Volatility buckets used by the generator and the predictor
const (
	VolatilityHigh   = 15.0
	VolatilityMedium = 8.0
	VolatilityLow    = 3.0
)

// volatilityRule maps any of its terms to a volatility bucket
type volatilityRule struct {
	terms      []string
	volatility float64
}

// Rules are evaluated in order, first match wins. Terms are compared against
// the lower-cased keyword exactly as written, so "NSE" never matches.
var volatilityRules = []volatilityRule{
	{
		terms:      []string{"crypto", "stock", "meme", "viral", "breaking", "election", "politics", "NSE"},
		volatility: VolatilityHigh,
	},
	{
		terms:      []string{"shilling", "fuel prices", "maize prices", "election", "strike"},
		volatility: VolatilityHigh,
	},
	{
		terms:      []string{"health", "education", "food", "home", "agriculture", "tea", "coffee"},
		volatility: VolatilityLow,
	},
}

// KeywordVolatility returns the noise amplitude for a keyword
func KeywordVolatility(keyword string) float64 {
	lower := strings.ToLower(keyword)
	for _, rule := range volatilityRules {
		for _, term := range rule.terms {
			if strings.Contains(lower, term) {
				return rule.volatility
			}
		}
	}
	return VolatilityMedium
}

// PopularKeywords are suggested search terms, grouped by theme
var PopularKeywords = []string{
	// Technology & Finance
	"M-Pesa", "Safaricom", "KCB Bank", "Equity Bank", "fintech Kenya",
	// Agriculture & Food
	"tea export Kenya", "coffee farming", "maize prices", "dairy farming", "horticulture",
	// Tourism & Travel
	"Maasai Mara", "safari Kenya", "Diani Beach", "Mount Kenya", "tourism Kenya",
	// Business & Economy
	"Nairobi Stock Exchange", "Kenya economy", "manufacturing Kenya", "export Kenya",
	// Energy & Infrastructure
	"geothermal Kenya", "solar power", "SGR railway", "infrastructure Kenya",
	// Education & Health
	"university Kenya", "NHIF", "healthcare Kenya", "medical tourism",
	// Real Estate & Construction
	"real estate Nairobi", "affordable housing", "construction Kenya",
	// Politics & Governance
	"Kenya government", "devolution Kenya", "county government",
	// Sports & Culture
	"Kenya athletics", "marathon running", "Kenyan music", "cultural tourism",
}
