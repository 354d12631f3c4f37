package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"chazonBack/internal/models"
	"chazonBack/internal/repositories"
	"chazonBack/internal/services"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
}

type listMeta struct {
	Pagination models.Pagination `json:"pagination"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondList(w http.ResponseWriter, data interface{}, pagination models.Pagination) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Meta: listMeta{Pagination: pagination}})
}

func respondErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Success: false, Error: &errorBody{Code: code, Message: message}})
}

// respondError translates service and repository errors into the response
// envelope. Anything unrecognized is a 500 with a generic message so internal
// details stay out of responses.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound),
		errors.Is(err, repositories.ErrServiceNotFound),
		errors.Is(err, repositories.ErrBookingNotFound),
		errors.Is(err, repositories.ErrCategoryNotFound),
		errors.Is(err, repositories.ErrTransactionNotFound):
		respondErrorCode(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, repositories.ErrDuplicateEmail):
		respondErrorCode(w, http.StatusConflict, "DUPLICATE_EMAIL", err.Error())
	case errors.Is(err, repositories.ErrDuplicateCharge):
		respondErrorCode(w, http.StatusConflict, "DUPLICATE_CHARGE", err.Error())
	case errors.Is(err, repositories.ErrInvalidTransition):
		respondErrorCode(w, http.StatusBadRequest, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, services.ErrAlreadySteward):
		respondErrorCode(w, http.StatusConflict, "ALREADY_STEWARD", err.Error())
	case errors.Is(err, services.ErrForbidden):
		respondErrorCode(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidSchedule),
		errors.Is(err, services.ErrPastSchedule),
		errors.Is(err, services.ErrUnknownStatus),
		errors.Is(err, services.ErrWrongPassword):
		respondErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, services.ErrVerificationFailed):
		respondErrorCode(w, http.StatusPaymentRequired, "VERIFICATION_FAILED", err.Error())
	default:
		respondErrorCode(w, gatewayErrorStatus(err), "INTERNAL", "internal server error")
	}
}

// gatewayErrorStatus passes provider 4xx responses through and maps the rest
// to 502.
func gatewayErrorStatus(err error) int {
	var apiErr *services.FlutterwaveError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
