package controllers

import (
	"errors"
	"net/http"

	"github.com/centsible/backend/internal/auth"
	"github.com/centsible/backend/internal/models"
)

// status returns the appropriate status for an error.
//
// The default for all error types is http.StatusBadRequest since
// most errors are user errors.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrEmailTaken) {
		return http.StatusConflict
	}

	if errors.Is(err, models.ErrAccountNotActive) {
		return http.StatusForbidden
	}

	if errors.Is(err, auth.ErrNoToken) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, errLoginFailed) ||
		errors.Is(err, errNotVerified) {
		return http.StatusUnauthorized
	}

	return http.StatusBadRequest
}

// Query parameter errors
var (
	errInvalidDate       = errors.New("a date in the query string could not be parsed. Dates must be in YYYY-MM-DD or RFC3339 format")
	errInvalidYearMonth  = errors.New("the year and month query parameters must form a valid month")
	errYearMonthRequired = errors.New("the year and month query parameters must be set")
)

// Login errors
var (
	errLoginFailed = errors.New("the email or password is not correct")
	errNotVerified = errors.New("Account not verified. Please check your email.")
)

// Verification errors
var (
	errVerificationInvalid = errors.New("the verification link is invalid or has expired")
)
