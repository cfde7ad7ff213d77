package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Validation errors. All of them map to HTTP 400 at the API boundary.
var (
	ErrAmountNegative           = errors.New("the amount must not be negative")
	ErrCategoryInvalid          = errors.New("the category is not a valid category for this record type")
	ErrCustomCategoryRequired   = errors.New("a custom category must be set when the category is Other")
	ErrNoteRequiredForOther     = errors.New("a note must be set when the category is Other")
	ErrStatusInvalid            = errors.New("the status must be one of Active, Closed, Frozen")
	ErrLanguageInvalid          = errors.New("the preferred language is not a valid language tag")
	ErrDateRangeInvalid         = errors.New("the end date must not be before the start date")
	ErrSavingAmountNegative     = errors.New("saving amounts must not be negative")
	ErrTargetAmountNotPositive  = errors.New("the target amount must be larger than zero")
	ErrAllocationAmountNegative = errors.New("allocated amounts must not be negative")
)

// Conflict errors, mapping to HTTP 409.
var ErrEmailTaken = errors.New("this email address is already registered")

// Credential errors.
var (
	ErrPasswordReused = errors.New("the new password must not match any of your last 5 passwords")
	ErrPasswordWrong  = errors.New("the password is not correct")
)
