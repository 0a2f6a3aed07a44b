// Package httpx is the HTTP presentation layer: routing, auth and the
// JSON mapping of domain errors.
package httpx

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to exactly one HTTP status. Internal
// faults are logged with their cause and answered with a generic body.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.Classify(err)
	code := statusFor(kind)
	msg := err.Error()
	if kind == domain.KindInternal {
		log.WithError(err).Error("internal error on http boundary")
		msg = "internal error"
	}
	writeJSON(w, code, errorBody{Error: msg, Kind: string(kind)})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
