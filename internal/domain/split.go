package domain

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"
)

// Fee rate applied to every transfer, as a fraction.
const (
	FeeRateNumerator   uint64 = 2
	FeeRateDenominator uint64 = 100
)

// MaxDecimals is the largest mint precision accepted for UI amounts.
const MaxDecimals int32 = 19

// maxUint64Digits is the number of decimal digits in math.MaxUint64.
const maxUint64Digits = 20

// Split is the fee/net decomposition of a transfer amount.
// Fee + Net == Amount always holds for a Split returned by ComputeSplit.
type Split struct {
	Amount uint64
	Fee    uint64
	Net    uint64
}

// ComputeSplit computes fee = floor(amount*2/100) and net = amount-fee.
// The division remainder stays in Net and is credited to the recipient.
func ComputeSplit(amount uint64) (Split, error) {
	scaled, err := CheckedMul(amount, FeeRateNumerator)
	if err != nil {
		return Split{}, err
	}

	fee, err := CheckedDiv(scaled, FeeRateDenominator)
	if err != nil {
		return Split{}, err
	}

	net, err := CheckedSub(amount, fee)
	if err != nil {
		return Split{}, err
	}

	return Split{Amount: amount, Fee: fee, Net: net}, nil
}

// CheckedMul returns a*b or ErrArithmeticOverflow.
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d * %d", ErrArithmeticOverflow, a, b)
	}

	return lo, nil
}

// CheckedDiv returns a/b or ErrArithmeticOverflow when b is zero.
func CheckedDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, fmt.Errorf("%w: division of %d by zero", ErrArithmeticOverflow, a)
	}

	return a / b, nil
}

// CheckedSub returns a-b or ErrArithmeticOverflow on underflow.
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, fmt.Errorf("%w: %d - %d", ErrArithmeticOverflow, a, b)
	}

	return diff, nil
}

// CheckedAdd returns a+b or ErrArithmeticOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d", ErrArithmeticOverflow, a, b)
	}

	return sum, nil
}

// FromBaseUnits converts a base-unit amount into a UI amount with the given decimals.
func FromBaseUnits(amount uint64, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals)
}

// ToBaseUnits converts a UI amount into base units. Fractions finer than
// decimals are rejected rather than rounded. Magnitude is checked on the
// digit count before rescaling, so oversized exponents never allocate.
func ToBaseUnits(ui decimal.Decimal, decimals int32) (uint64, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return 0, fmt.Errorf("%w: decimals must be between 0 and %d", ErrInvalidAmount, MaxDecimals)
	}
	if ui.IsNegative() {
		return 0, fmt.Errorf("%w: amount must not be negative", ErrInvalidAmount)
	}
	if ui.IsZero() {
		return 0, nil
	}

	if int64(ui.NumDigits())+int64(ui.Exponent())+int64(decimals) > maxUint64Digits {
		return 0, fmt.Errorf("%w: amount exceeds 64 bits", ErrArithmeticOverflow)
	}

	shifted := ui.Shift(decimals)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, decimals)
	}

	n := shifted.BigInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: amount exceeds 64 bits", ErrArithmeticOverflow)
	}

	return n.Uint64(), nil
}
