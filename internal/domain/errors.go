package domain

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInternalError = errors.New("internal error")

	ErrUserNotFound        = errors.New("user not found")
	ErrCardNotFound        = errors.New("card not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrCategoryInUse       = errors.New("category is referenced by expenses")

	ErrDescriptionRequired  = errors.New("description is required")
	ErrDescriptionTooLong   = errors.New("description exceeds maximum length")
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidCardType      = errors.New("invalid card type")
	ErrInvalidPaymentDay    = errors.New("payment day must be between 1 and 31")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")

	ErrInvalidInstallmentsCount     = errors.New("invalid installments count")
	ErrFirstInstallmentDateRequired = errors.New("expense must have a first installment date")
	ErrInstallmentsAlreadyExist     = errors.New("expense already has installments")
	ErrNotScheduledExpense          = errors.New("expense is not part of a scheduled series")
	ErrInvalidDeleteOption          = errors.New("invalid delete option")
)

// Validation constants
const (
	MaxDescriptionLength = 255
	MaxNameLength        = 100
	MaxInstallmentsCount = 60
	MaxScheduledMonths   = 24
)
