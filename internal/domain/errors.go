package domain

import "errors"

// Sentinel errors for the settlement core. Precondition violations abort the
// operation at its boundary; ErrDuplicatePeriod is a state conflict, not bad input.
var (
	ErrNegativeAmount        = errors.New("amount cannot be negative")
	ErrZeroAmount            = errors.New("amount must be greater than zero")
	ErrInsufficientAmount    = errors.New("subtraction would produce a negative amount")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidMonth          = errors.New("month must be between 1 and 12")
	ErrInvalidPeriod         = errors.New("invalid period")
	ErrBlankOrderNumber      = errors.New("order number cannot be blank")
	ErrOrderIDRequired       = errors.New("order id is required")
	ErrCaseEntrustIDRequired = errors.New("case entrust id is required")
	ErrMemberUserIDRequired  = errors.New("member user id is required")
	ErrDuplicatePeriod       = errors.New("repayment plan for period already exists")
)
