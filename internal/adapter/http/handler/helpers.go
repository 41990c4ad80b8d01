package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/inspi-writer001/feesplit/internal/adapter/http/dto"
	"github.com/inspi-writer001/feesplit/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes it with its error kind.
// Internal errors are logged and their details withheld.
func writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := mapDomainError(err)
	kind := domain.ErrorKind(err)

	resp := dto.ErrorResponse{Error: message, Kind: kind, Message: err.Error()}
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg(message)
		resp.Message = ""
	}

	writeJSON(w, status, resp)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrFeeSplitNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrArithmeticOverflow):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAccount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDecimalsQuery parses the mint decimals query parameter. Missing means 0.
func parseDecimalsQuery(r *http.Request) (int32, error) {
	val := r.URL.Query().Get("decimals")
	if val == "" {
		return 0, nil
	}
	d, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("decimals must be an integer between 0 and %d", domain.MaxDecimals)
	}
	if d < 0 || d > int64(domain.MaxDecimals) {
		return 0, fmt.Errorf("decimals must be between 0 and %d", domain.MaxDecimals)
	}
	return int32(d), nil
}
