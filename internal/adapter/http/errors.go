package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tably/tably/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeInvalidRequestBody   = "invalid_request_body"
	codeValidationFailed     = "validation_failed"
	codeInvalidStatus        = "invalid_status"
	codeIllegalTransition    = "illegal_transition"
	codeOrderNotFound        = "order_not_found"
	codeSubscriptionNotFound = "subscription_not_found"
	codeOrderFinalized       = "order_finalized"
	codeNotFound             = "not_found"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError translates the domain error taxonomy 1:1 onto HTTP status codes:
// validation problems are 400, missing entities 404, transition rule violations 422,
// everything else is an opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		statusErr     *domain.InvalidStatusError
		transitionErr *domain.IllegalTransitionError
		moneyErr      *domain.InvalidMoneyError
		currencyErr   *domain.CurrencyMismatchError
	)

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case errors.Is(err, domain.ErrSubscriptionNotFound):
		writeError(w, http.StatusNotFound, codeSubscriptionNotFound, err.Error())
	case errors.As(err, &transitionErr):
		writeError(w, http.StatusUnprocessableEntity, codeIllegalTransition, err.Error())
	case errors.Is(err, domain.ErrOrderFinalized):
		writeError(w, http.StatusUnprocessableEntity, codeOrderFinalized, err.Error())
	case errors.As(err, &statusErr):
		writeError(w, http.StatusBadRequest, codeInvalidStatus, err.Error())
	case errors.As(err, &validationErr),
		errors.As(err, &moneyErr),
		errors.As(err, &currencyErr),
		errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal server error")
	}
}
