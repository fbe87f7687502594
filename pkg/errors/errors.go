package errors

import (
	"errors"
	"fmt"
)

// Application errors
var (
	ErrContractNotFound   = errors.New("debt contract not found")
	ErrAllocationNotFound = errors.New("allocation record not found")
	ErrInvalidCommand     = errors.New("invalid command")
)

// BusinessError carries a stable code alongside the underlying error.
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeContractNotFound   = "CONTRACT_NOT_FOUND"
	ErrCodeAllocationNotFound = "ALLOCATION_NOT_FOUND"
	ErrCodeDuplicatePeriod    = "DUPLICATE_PERIOD"
	ErrCodeInvalidCommand     = "INVALID_COMMAND"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
)

// Wrap common errors with business context
func WrapContractNotFound(memberUserID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeContractNotFound,
		fmt.Sprintf("debt contract for member %d not found", memberUserID),
		ErrContractNotFound,
	)
}

func WrapAllocationNotFound(orderID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAllocationNotFound,
		fmt.Sprintf("no allocation amount recorded for order %s", orderID),
		ErrAllocationNotFound,
	)
}

func WrapDuplicatePeriod(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicatePeriod,
		"a repayment plan for this period already exists",
		err,
	)
}

func WrapInvalidCommand(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCommand,
		"command failed domain validation",
		err,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}
