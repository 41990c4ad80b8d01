package dto

import (
	"errors"
	"testing"

	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/usecase"
)

func TestCreateFeeSplitRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name          string
		request       *CreateFeeSplitRequest
		authenticated string
		want          usecase.TransferWithFeeInput
		expectErr     error
	}{
		{
			name:    "base units with body authority",
			request: &CreateFeeSplitRequest{Amount: "1000", Source: "s", Recipient: "r", FeeCollector: "f", Authority: "a"},
			want:    usecase.TransferWithFeeInput{Amount: 1000, Source: "s", Recipient: "r", FeeCollector: "f", Authority: "a"},
		},
		{
			name:          "authenticated principal fills authority",
			request:       &CreateFeeSplitRequest{Amount: "1000", Source: "s", Recipient: "r", FeeCollector: "f"},
			authenticated: "p",
			want:          usecase.TransferWithFeeInput{Amount: 1000, Source: "s", Recipient: "r", FeeCollector: "f", Authority: "p"},
		},
		{
			name:          "matching body authority is accepted",
			request:       &CreateFeeSplitRequest{Amount: "5", Authority: "p"},
			authenticated: "p",
			want:          usecase.TransferWithFeeInput{Amount: 5, Authority: "p"},
		},
		{
			name:          "mismatched body authority is rejected",
			request:       &CreateFeeSplitRequest{Amount: "5", Authority: "someone-else"},
			authenticated: "p",
			expectErr:     domain.ErrUnauthorized,
		},
		{
			name:    "ui amount is scaled by decimals",
			request: &CreateFeeSplitRequest{UIAmount: "1.5", Decimals: 6},
			want:    usecase.TransferWithFeeInput{Amount: 1_500_000},
		},
		{
			name:      "ui amount with too many decimals",
			request:   &CreateFeeSplitRequest{UIAmount: "0.0000001", Decimals: 6},
			expectErr: domain.ErrInvalidAmount,
		},
		{
			name:      "negative decimals",
			request:   &CreateFeeSplitRequest{UIAmount: "1", Decimals: -1},
			expectErr: domain.ErrInvalidAmount,
		},
		{
			name:      "decimals above maximum",
			request:   &CreateFeeSplitRequest{Amount: "1", Decimals: domain.MaxDecimals + 1},
			expectErr: domain.ErrInvalidAmount,
		},
		{
			name:      "huge ui exponent",
			request:   &CreateFeeSplitRequest{UIAmount: "1e20000000"},
			expectErr: domain.ErrArithmeticOverflow,
		},
		{
			name:      "both amount forms",
			request:   &CreateFeeSplitRequest{Amount: "1", UIAmount: "1"},
			expectErr: domain.ErrInvalidAmount,
		},
		{
			name:      "missing amount",
			request:   &CreateFeeSplitRequest{},
			expectErr: domain.ErrInvalidAmount,
		},
		{
			name:      "negative amount",
			request:   &CreateFeeSplitRequest{Amount: "-1"},
			expectErr: domain.ErrInvalidAmount,
		},
		{
			name:    "max uint64 parses and is left to the core to reject",
			request: &CreateFeeSplitRequest{Amount: "18446744073709551615"},
			want:    usecase.TransferWithFeeInput{Amount: 18446744073709551615},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput(tt.authenticated)
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected %v, got %v", tt.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name          string
		request       *CreateAccountRequest
		authenticated string
		want          usecase.OpenAccountInput
		expectErr     error
	}{
		{
			name:    "unauthenticated owner is passed through",
			request: &CreateAccountRequest{Address: "a", Owner: "o", Mint: "m"},
			want:    usecase.OpenAccountInput{Address: "a", Owner: "o", Mint: "m"},
		},
		{
			name:          "authenticated principal fills owner",
			request:       &CreateAccountRequest{Mint: "m"},
			authenticated: "p",
			want:          usecase.OpenAccountInput{Owner: "p", Mint: "m"},
		},
		{
			name:          "matching owner is accepted",
			request:       &CreateAccountRequest{Owner: "p", Mint: "m"},
			authenticated: "p",
			want:          usecase.OpenAccountInput{Owner: "p", Mint: "m"},
		},
		{
			name:          "foreign owner is rejected",
			request:       &CreateAccountRequest{Owner: "someone-else", Mint: "m"},
			authenticated: "p",
			expectErr:     domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput(tt.authenticated)
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected %v, got %v", tt.expectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
