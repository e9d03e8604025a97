// internal/domain/geo/counties.go

package geo

import "strings"

// Counties are the 47 counties of Kenya, alphabetically
var Counties = []string{
	"Baringo",
	"Bomet",
	"Bungoma",
	"Busia",
	"Elgeyo-Marakwet",
	"Embu",
	"Garissa",
	"Homa Bay",
	"Isiolo",
	"Kajiado",
	"Kakamega",
	"Kericho",
	"Kiambu",
	"Kilifi",
	"Kirinyaga",
	"Kisii",
	"Kisumu",
	"Kitui",
	"Kwale",
	"Laikipia",
	"Lamu",
	"Machakos",
	"Makueni",
	"Mandera",
	"Marsabit",
	"Meru",
	"Migori",
	"Mombasa",
	"Murang'a",
	"Nairobi",
	"Nakuru",
	"Nandi",
	"Narok",
	"Nyamira",
	"Nyandarua",
	"Nyeri",
	"Samburu",
	"Siaya",
	"Taita-Taveta",
	"Tana River",
	"Tharaka-Nithi",
	"Trans Nzoia",
	"Turkana",
	"Uasin Gishu",
	"Vihiga",
	"Wajir",
	"West Pokot",
}

// CanonicalCounty returns the listed spelling of a county name, matched
// case-insensitively after trimming
func CanonicalCounty(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, county := range Counties {
		if strings.EqualFold(county, name) {
			return county, true
		}
	}
	return "", false
}

// Location multipliers scale activity in busier areas
const (
	MultiplierMajorCenter = 1.5
	MultiplierEconomicHub = 1.2
	MultiplierBase        = 1.0
)

// Eldoret is a town rather than a county and is kept as listed.
var majorCenters = []string{"Nairobi", "Mombasa", "Kisumu", "Nakuru", "Eldoret"}

var economicHubs = []string{"Kiambu", "Machakos", "Kajiado", "Uasin Gishu", "Kericho"}

// LocationMultiplier returns the activity multiplier for an exact location name
func LocationMultiplier(location string) float64 {
	if contains(majorCenters, location) {
		return MultiplierMajorCenter
	}
	if contains(economicHubs, location) {
		return MultiplierEconomicHub
	}
	return MultiplierBase
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
