package postgres

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Balances and amounts are NUMERIC(20,0) columns, read as text and written
// with an explicit ::numeric cast so the full uint64 range survives.

func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func parseAmount(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("postgres: corrupt amount %q: %w", s, err)
	}

	if d.Sign() < 0 || !d.IsInteger() {
		return 0, fmt.Errorf("postgres: amount %q is not a base-unit count", s)
	}

	n := d.BigInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("postgres: amount %q exceeds 64 bits", s)
	}

	return n.Uint64(), nil
}
