// Package sector maps market keywords onto Kenyan economic sectors.
package sector

import (
	"strings"
	"unicode"
)

// Sector is a named group of sector tags
type Sector struct {
	Key  string   `json:"key"`
	Tags []string `json:"tags"`
}

// MaxTags limits how many tags Map returns
const MaxTags = 4

// Sectors in match order
var Sectors = []Sector{
	{Key: "agriculture", Tags: []string{"Agriculture", "Tea & Coffee", "Horticulture", "Livestock", "Dairy"}},
	{Key: "technology", Tags: []string{"Fintech", "M-Pesa", "Digital Banking", "E-commerce", "Telecommunications"}},
	{Key: "tourism", Tags: []string{"Safari Tourism", "Coastal Tourism", "Hospitality", "Airlines", "Travel Services"}},
	{Key: "manufacturing", Tags: []string{"Textiles", "Food Processing", "Cement", "Steel", "Pharmaceuticals"}},
	{Key: "energy", Tags: []string{"Geothermal", "Solar Power", "Wind Energy", "Oil & Gas", "Hydroelectric"}},
	{Key: "finance", Tags: []string{"Banking", "Insurance", "Capital Markets", "Microfinance", "Investment"}},
	{Key: "real estate", Tags: []string{"Residential", "Commercial", "Industrial", "REITs", "Construction"}},
	{Key: "education", Tags: []string{"Universities", "Technical Training", "Online Learning", "EdTech", "Vocational"}},
	{Key: "healthcare", Tags: []string{"Hospitals", "Pharmaceuticals", "Medical Equipment", "Health Insurance", "Telemedicine"}},
	{Key: "transport", Tags: []string{"Matatu Industry", "Logistics", "Shipping", "Aviation", "Railway"}},
	{Key: "retail", Tags: []string{"Supermarkets", "Shopping Malls", "E-commerce", "Fashion", "Electronics"}},
	{Key: "media", Tags: []string{"Broadcasting", "Publishing", "Digital Media", "Advertising", "Entertainment"}},
}

// Default is returned when a keyword matches no sector
var Default = []string{"Agriculture", "Fintech", "Tourism", "Manufacturing"}

// minTokenLen ignores short words such as "&" or "of" when comparing words
const minTokenLen = 3

// Map unions the tags of every sector whose key or tags appear in the
// keyword, keeps first occurrences and truncates to MaxTags. A sector also
// matches when one of the keyword's words is a word of one of its tags.
func Map(keyword string) []string {
	lower := strings.ToLower(keyword)
	words := tokens(lower)

	var matched []string
	for _, s := range Sectors {
		if s.matches(lower, words) {
			matched = append(matched, s.Tags...)
		}
	}

	if len(matched) == 0 {
		out := make([]string, len(Default))
		copy(out, Default)
		return out
	}

	seen := make(map[string]bool, len(matched))
	out := make([]string, 0, MaxTags)
	for _, tag := range matched {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

func (s Sector) matches(lowerKeyword string, words map[string]bool) bool {
	if strings.Contains(lowerKeyword, s.Key) {
		return true
	}
	for _, tag := range s.Tags {
		lowerTag := strings.ToLower(tag)
		if strings.Contains(lowerKeyword, lowerTag) {
			return true
		}
		for word := range tokens(lowerTag) {
			if words[word] {
				return true
			}
		}
	}
	return false
}

func tokens(s string) map[string]bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		if len(f) >= minTokenLen {
			out[f] = true
		}
	}
	return out
}
