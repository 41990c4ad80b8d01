package domain

import (
	"fmt"
	"strconv"
)

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// ParseAmount parses a base-unit amount string. Values that do not fit in an
// unsigned 64-bit integer are rejected.
func ParseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an unsigned 64-bit integer", ErrInvalidAmount, s)
	}

	return v, nil
}
