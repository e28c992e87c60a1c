package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vontajamal/sentinel-eye/internal/sentinelerr"
)

// errorEnvelope is the wire shape every error response uses:
// {code, message, remediation?, details?}.
type errorEnvelope struct {
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Remediation string                 `json:"remediation,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError converts any error to its {code, message} envelope; known
// sentinelerr.Error values retain their original code, everything else
// maps to 500 with E_DASHBOARD_UNKNOWN.
func writeError(w http.ResponseWriter, err error) {
	if se, ok := err.(*sentinelerr.Error); ok {
		writeJSON(w, statusForCode(se.Code), errorEnvelope{
			Code:    string(se.Code),
			Message: se.Message,
			Details: se.Details,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{
		Code:    string(sentinelerr.DashboardUnknown),
		Message: err.Error(),
	})
}

func writeErrorCode(w http.ResponseWriter, code sentinelerr.Code, message string) {
	writeJSON(w, statusForCode(code), errorEnvelope{Code: string(code), Message: message})
}

func statusForCode(code sentinelerr.Code) int {
	switch code {
	case sentinelerr.ConfigNotFound:
		return http.StatusNotFound
	case sentinelerr.ConfigInvalid, sentinelerr.ConfigInvalidJSON, sentinelerr.ArgInvalid, sentinelerr.ArgRequired:
		return http.StatusBadRequest
	case sentinelerr.AuthMissing, sentinelerr.DashboardAuthRequired:
		return http.StatusUnauthorized
	case sentinelerr.DashboardAssetForbidden:
		return http.StatusForbidden
	case sentinelerr.DashboardMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case sentinelerr.DashboardPending:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
