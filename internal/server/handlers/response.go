// internal/server/handlers/response.go

package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"kenyatrends/internal/logger"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses. Client errors echo the cause, server errors
// are logged and hidden.
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	response := map[string]string{"error": message}

	if err != nil {
		if code >= 500 {
			logger.Error("HTTP error", zap.Int("code", code), zap.String("message", message), zap.Error(err))
		} else {
			response["detail"] = err.Error()
		}
	}

	respondWithJSON(w, code, response)
}
