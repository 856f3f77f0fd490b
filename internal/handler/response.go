package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danesper/rewards-backend/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{Success: true, Data: data})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// RespondDomainError maps the service error taxonomy onto HTTP. Structured
// detail fields (recomputed balance, policy minimum) ride along so the
// presentation layer never has to re-derive them.
func RespondDomainError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientFundsError
	if errors.As(err, &insufficient) {
		RespondAppError(w, ErrInsufficientFunds, map[string]string{
			"balance":   insufficient.Balance.StringFixed(2),
			"requested": insufficient.Requested.StringFixed(2),
		})
		return
	}

	var belowMinimum *domain.MinimumAmountError
	if errors.As(err, &belowMinimum) {
		RespondAppError(w, ErrMinimumAmountNotMet, map[string]string{
			"minimum":   belowMinimum.Minimum.StringFixed(2),
			"requested": belowMinimum.Requested.StringFixed(2),
		})
		return
	}

	var appErr *AppError
	switch {
	case errors.Is(err, domain.ErrBankAccountNotFound):
		appErr = ErrBankAccountNotFound
	case errors.Is(err, domain.ErrNotFound):
		appErr = ErrResourceNotFound
	case errors.Is(err, domain.ErrInvalidAmount):
		appErr = ErrInvalidAmount
	case errors.Is(err, domain.ErrInvalidCursor):
		appErr = ErrInvalidCursor
	case errors.Is(err, domain.ErrTimeout):
		appErr = ErrTimeout
	case errors.Is(err, domain.ErrTxConflict):
		appErr = ErrTxConflict
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr, nil)
}
