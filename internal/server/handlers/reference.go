// internal/server/handlers/reference.go

package handlers

import (
	"net/http"
	"strings"

	"kenyatrends/internal/domain/geo"
	"kenyatrends/internal/domain/sector"
	"kenyatrends/internal/domain/trend"
)

// GetCounties lists the counties accepted as a location
func GetCounties(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, geo.Counties)
}

// GetKeywords lists suggested keywords
func GetKeywords(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, trend.PopularKeywords)
}

// GetSectors lists the sector table
func GetSectors(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, sector.Sectors)
}

// GetRanges lists the supported analysis windows in days
func GetRanges(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, trend.AllowedRanges)
}

// MapSectors maps a keyword query parameter onto sector tags
func MapSectors(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		respondWithError(w, http.StatusBadRequest, "Missing keyword", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"keyword": keyword,
		"sectors": sector.Map(keyword),
	})
}
