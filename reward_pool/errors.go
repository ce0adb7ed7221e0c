package reward_pool

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorCode uint32

// Custom program errors start at 6000 like anchor programs.
const (
	ErrorCodeUnauthorized ErrorCode = 6000 + iota
	ErrorCodeAlreadyInitialized
	ErrorCodeAlreadyExists
	ErrorCodeInvalidDuration
	ErrorCodeInvalidAmount
	ErrorCodeInsufficientBalance
	ErrorCodeInsufficientFunds
	ErrorCodeNothingToClaim
	ErrorCodeInvalidMint
	ErrorCodeAccountNotFound
	ErrorCodeInvalidAccount
	ErrorCodeMathOverflow
	ErrorCodeReadOnly
)

// ProgramError is a typed program failure. Two ProgramErrors match under errors.Is when their codes match.
type ProgramError struct {
	Code ErrorCode
	Name string
	Msg  string
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Msg)
}

func (e *ProgramError) Is(target error) bool {
	t, ok := target.(*ProgramError)
	return ok && t.Code == e.Code
}

var (
	ErrUnauthorized        = &ProgramError{ErrorCodeUnauthorized, "Unauthorized", "funder does not hold the authority mint"}
	ErrAlreadyInitialized  = &ProgramError{ErrorCodeAlreadyInitialized, "AlreadyInitialized", "program config already initialized"}
	ErrAlreadyExists       = &ProgramError{ErrorCodeAlreadyExists, "AlreadyExists", "account already exists"}
	ErrInvalidDuration     = &ProgramError{ErrorCodeInvalidDuration, "InvalidDuration", "reward duration must be positive"}
	ErrInvalidAmount       = &ProgramError{ErrorCodeInvalidAmount, "InvalidAmount", "amount must be positive"}
	ErrInsufficientBalance = &ProgramError{ErrorCodeInsufficientBalance, "InsufficientBalance", "amount exceeds staked balance"}
	ErrInsufficientFunds   = &ProgramError{ErrorCodeInsufficientFunds, "InsufficientFunds", "insufficient token balance"}
	ErrNothingToClaim      = &ProgramError{ErrorCodeNothingToClaim, "NothingToClaim", "no rewards owed"}
	ErrInvalidMint         = &ProgramError{ErrorCodeInvalidMint, "InvalidMint", "unknown or mismatched mint"}
	ErrAccountNotFound     = &ProgramError{ErrorCodeAccountNotFound, "AccountNotFound", "account not found"}
	ErrInvalidAccount      = &ProgramError{ErrorCodeInvalidAccount, "InvalidAccount", "account data or ownership mismatch"}
	ErrMathOverflow        = &ProgramError{ErrorCodeMathOverflow, "MathOverflow", "math overflow"}
	ErrReadOnly            = &ProgramError{ErrorCodeReadOnly, "ReadOnly", "store is read only"}
)

// CodeOf extracts the program error code from err, if any.
func CodeOf(err error) (ErrorCode, bool) {
	var pe *ProgramError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return 0, false
}
