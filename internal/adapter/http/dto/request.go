package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/usecase"
)

// CreateFeeSplitRequest represents a request to run a fee-split transfer.
// Amount is in base units. UIAmount with Decimals may be sent instead.
type CreateFeeSplitRequest struct {
	Amount       string `json:"amount,omitempty"`
	UIAmount     string `json:"ui_amount,omitempty"`
	Decimals     int32  `json:"decimals,omitempty"`
	Source       string `json:"source"`
	Recipient    string `json:"recipient"`
	FeeCollector string `json:"fee_collector"`
	Authority    string `json:"authority,omitempty"`
}

// BaseUnits resolves the requested amount in base units.
func (r *CreateFeeSplitRequest) BaseUnits() (uint64, error) {
	return resolveAmount(r.Amount, r.UIAmount, r.Decimals)
}

// ToUseCaseInput converts to use case input. A non-empty authenticated
// principal takes the place of the body authority, which must then match or
// be omitted.
func (r *CreateFeeSplitRequest) ToUseCaseInput(authenticated string) (usecase.TransferWithFeeInput, error) {
	amount, err := r.BaseUnits()
	if err != nil {
		return usecase.TransferWithFeeInput{}, err
	}

	authority := r.Authority
	if authenticated != "" {
		if authority != "" && authority != authenticated {
			return usecase.TransferWithFeeInput{}, fmt.Errorf("%w: authority does not match the authenticated principal", domain.ErrUnauthorized)
		}
		authority = authenticated
	}

	return usecase.TransferWithFeeInput{
		Amount:       amount,
		Source:       r.Source,
		Recipient:    r.Recipient,
		FeeCollector: r.FeeCollector,
		Authority:    authority,
	}, nil
}

// CreateAccountRequest represents a request to open a token account.
// Accounts always open with a zero balance.
type CreateAccountRequest struct {
	Address string `json:"address,omitempty"`
	Owner   string `json:"owner"`
	Mint    string `json:"mint"`
}

// ToUseCaseInput converts to use case input. A non-empty authenticated
// principal must own the account; an omitted owner defaults to it.
func (r *CreateAccountRequest) ToUseCaseInput(authenticated string) (usecase.OpenAccountInput, error) {
	owner := r.Owner
	if authenticated != "" {
		if owner != "" && owner != authenticated {
			return usecase.OpenAccountInput{}, fmt.Errorf("%w: owner does not match the authenticated principal", domain.ErrUnauthorized)
		}
		owner = authenticated
	}

	return usecase.OpenAccountInput{
		Address: r.Address,
		Owner:   owner,
		Mint:    r.Mint,
	}, nil
}

// ParseQuoteAmount reads a quote amount given either as base units or as a
// UI amount with decimals.
func ParseQuoteAmount(amount, uiAmount string, decimals int32) (uint64, error) {
	return resolveAmount(amount, uiAmount, decimals)
}

func resolveAmount(amount, uiAmount string, decimals int32) (uint64, error) {
	if decimals < 0 || decimals > domain.MaxDecimals {
		return 0, fmt.Errorf("%w: decimals must be between 0 and %d", domain.ErrInvalidAmount, domain.MaxDecimals)
	}

	switch {
	case amount != "" && uiAmount != "":
		return 0, fmt.Errorf("%w: send either amount or ui_amount", domain.ErrInvalidAmount)
	case amount != "":
		return domain.ParseAmount(amount)
	case uiAmount != "":
		ui, err := decimal.NewFromString(uiAmount)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err)
		}
		return domain.ToBaseUnits(ui, decimals)
	default:
		return 0, fmt.Errorf("%w: amount is required", domain.ErrInvalidAmount)
	}
}
