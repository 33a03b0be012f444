package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Lofienjoyerr/CafeProject/internal/adapter/logger"
	"github.com/Lofienjoyerr/CafeProject/internal/domain"
)

type ErrorResponse struct {
	Error  string              `json:"error"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondError maps service errors onto status codes. Unexpected errors are
// logged and reported without details.
func respondError(w http.ResponseWriter, r *http.Request, lgr logger.Logger, err error) {
	var verr *domain.ValidationError
	var cerr *domain.ConsistencyError

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Errors: verr.Fields})
	case errors.Is(err, domain.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "Not found")
	case errors.As(err, &cerr):
		lgr.Error("consistency_failure", "Derived totals could not be updated", logger.RequestID(r.Context()), map[string]interface{}{
			"op":       cerr.Op,
			"order_id": cerr.OrderID,
		}, err)
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	default:
		lgr.Error("request_failed", "Request failed", logger.RequestID(r.Context()), map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		}, err)
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("body", "invalid JSON body")
	}
	return nil
}
