package domain

import "errors"

var (
	// Fee split errors
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnauthorized        = errors.New("authority does not control source account")
	ErrInvalidAccount      = errors.New("invalid account")

	// Lookup errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrFeeSplitNotFound = errors.New("fee split not found")

	// Input errors
	ErrInvalidAmount = errors.New("invalid amount")
)

// KindOK is the ErrorKind of a nil error.
const KindOK = "ok"

// ErrorKind returns a stable label for err, used in logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrArithmeticOverflow):
		return "arithmetic_overflow"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidAccount), errors.Is(err, ErrAccountNotFound):
		return "invalid_account"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrFeeSplitNotFound):
		return "not_found"
	default:
		return "internal"
	}
}

// LegError reports which ledger operation of a fee split failed. The ledger's
// error is kept as-is and remains reachable through errors.Is / errors.As.
type LegError struct {
	Leg Leg
	Err error
}

func (e *LegError) Error() string {
	return string(e.Leg) + " leg: " + e.Err.Error()
}

func (e *LegError) Unwrap() error {
	return e.Err
}
