package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/georoute/georoute/internal/routeerr"
)

func (a *API) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.log.Error("failed to encode response body", zap.Error(err))
	}
}

func (a *API) badRequest(w http.ResponseWriter, err error) {
	a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (a *API) serverError(w http.ResponseWriter, err error) {
	a.log.Error("internal server error", zap.Error(err))
	a.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// respondError maps a routeerr.Kind to its HTTP status: OutOfRange,
// InvalidRange, and InvalidInput are client mistakes (400); Internal is ours
// (500).
func (a *API) respondError(w http.ResponseWriter, err error) {
	kind, ok := routeerr.KindOf(err)
	if !ok {
		a.serverError(w, err)
		return
	}

	switch kind {
	case routeerr.OutOfRange, routeerr.InvalidRange, routeerr.InvalidInput:
		a.badRequest(w, err)
	case routeerr.Internal:
		a.serverError(w, err)
	default:
		a.serverError(w, err)
	}
}
