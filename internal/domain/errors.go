package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidBudget       = errors.New("monthly budget must be greater than zero")
	ErrInvalidSalary       = errors.New("salary must be zero or greater")
	ErrInvalidStartDay     = errors.New("month start day must be between 1 and 28")
	ErrInvalidDate         = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNoteTooLong         = errors.New("note exceeds maximum length")
	ErrNothingToUpdate     = errors.New("nothing to update")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrRecomputeFailed     = errors.New("period recompute failed")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrExpenseInactive     = errors.New("expense is inactive")
	ErrConsumptionNotFound = errors.New("consumption not found")
	ErrSettingsNotFound    = errors.New("settings not found")
	ErrPeriodNotFound      = errors.New("period summary not found")
	ErrSnapshotNotFound    = errors.New("snapshot not found")
	ErrSnapshotExists      = errors.New("snapshot already exists for this period")
	ErrUserNotFound        = errors.New("user not found")
)

// Validation constants
const (
	MaxExpenseNameLength = 255
	MaxNoteLength        = 1000
)
