package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization required"}
	ErrInvalidToken     = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrMinimumAmountNotMet = &AppError{http.StatusBadRequest, "MINIMUM_AMOUNT_NOT_MET", "Amount is below the minimum"}
	ErrInvalidCursor       = &AppError{http.StatusBadRequest, "INVALID_CURSOR", "Cursor is not valid"}
	ErrBankAccountNotFound = &AppError{http.StatusNotFound, "BANK_ACCOUNT_NOT_FOUND", "Bank account not found"}
	ErrInsufficientFunds   = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrTxConflict          = &AppError{http.StatusConflict, "TRANSACTION_CONFLICT", "Operation conflicted with a concurrent request, retry"}
	ErrTimeout             = &AppError{http.StatusGatewayTimeout, "TIMEOUT", "Operation timed out, outcome unknown"}
	ErrIncomeDisabled      = &AppError{http.StatusForbidden, "INCOME_DISABLED", "Income endpoint is disabled in production"}
)
