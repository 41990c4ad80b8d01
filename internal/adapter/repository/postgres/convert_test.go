package postgres

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "980", want: 980},
		{in: "18446744073709551615", want: math.MaxUint64},
		{in: "18446744073709551616", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "1.5", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}

			if err != nil || got != tt.want {
				t.Fatalf("parseAmount(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
			}

			if formatAmount(got) != tt.in {
				t.Fatalf("formatAmount(%d) = %s", got, formatAmount(got))
			}
		})
	}
}
