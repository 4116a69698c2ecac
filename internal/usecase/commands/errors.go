package commands

import (
	"fmt"

	"relief-ledger/internal/pkg/errs"
)

var (
	ErrValidation           = errs.New("validation error")
	ErrPermissionDenied     = errs.New("permission denied")
	ErrWorkshopNotFound     = errs.New("workshop not found")
	ErrProgramNotFound      = errs.New("program not found")
	ErrProductNotFound      = errs.New("product not found")
	ErrParticipantNotFound  = errs.New("participant not found")
	ErrEnrollmentNotFound   = errs.New("enrollment not found")
	ErrOwnerNotFound        = errs.New("owner not found")
	ErrBalanceNotFound      = errs.New("balance not found")
	ErrInsufficientBalance  = errs.New("insufficient balance")
	ErrInsufficientStock    = errs.New("insufficient stock")
	ErrNoEligibleRecipients = errs.New("no eligible recipients")

	ErrIdempotencyKeyRequired = errs.New("idempotency key required")
	ErrIdempotencyInProgress  = errs.New("idempotency in progress")
	ErrIdempotencyCheckFailed = errs.New("idempotency check failed")
	ErrDuplicateRequest       = errs.New("duplicate request with different parameters")

	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// InsufficientBalanceError reports how much was available against how much
// the mutation required. It matches ErrInsufficientBalance under errors.Is.
type InsufficientBalanceError struct {
	Available int64
	Required  int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Available, e.Required)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
