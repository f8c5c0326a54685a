package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anatolykoptev/go_ytools/internal/engine"
	"github.com/anatolykoptev/go_ytools/internal/resolver"
	"github.com/anatolykoptev/go_ytools/internal/toolutil"
)

// errorBody is the {"detail": ...} error shape shared by every endpoint.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("http: encode response failed", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Detail: msg})
}

// statusFor maps a resolver error kind to an HTTP status.
func statusFor(err error) int {
	switch resolver.KindOf(err) {
	case resolver.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// decodeVideoRequest reads the JSON body and normalizes its fields.
// It writes the error response itself and returns false on failure.
func decodeVideoRequest(w http.ResponseWriter, r *http.Request) (engine.VideoRequest, bool) {
	var req engine.VideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return req, false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return req, false
	}
	req.URL = toolutil.NormURL(req.URL)
	req.Languages = toolutil.NormLanguages(req.Languages)
	return req, true
}
