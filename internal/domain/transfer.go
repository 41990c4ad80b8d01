package domain

import (
	"fmt"
	"time"
)

// TransferRequest is one fee-split transfer: amount plus the four references
// bound for the duration of a single call.
type TransferRequest struct {
	Amount       uint64
	Source       AccountRef
	Recipient    AccountRef
	FeeCollector AccountRef
	Authority    Principal
}

// Validate checks that the three accounts are distinct.
func (r TransferRequest) Validate() error {
	if r.Source == r.Recipient || r.Source == r.FeeCollector || r.Recipient == r.FeeCollector {
		return fmt.Errorf("%w: source, recipient and fee collector must be distinct", ErrInvalidAccount)
	}

	return nil
}

// TransferContext binds the accounts and authority of a transfer ahead of
// time, so the caller only supplies an amount.
type TransferContext struct {
	Source       AccountRef
	Recipient    AccountRef
	FeeCollector AccountRef
	Authority    Principal
}

// Bind returns the request for amount using the bound references.
func (c TransferContext) Bind(amount uint64) TransferRequest {
	return TransferRequest{
		Amount:       amount,
		Source:       c.Source,
		Recipient:    c.Recipient,
		FeeCollector: c.FeeCollector,
		Authority:    c.Authority,
	}
}

// Leg identifies one of the two ledger operations of a fee split.
type Leg string

const (
	LegFee Leg = "fee"
	LegNet Leg = "net"
)

// FeeSplit is the persisted record of a completed fee-split transfer.
type FeeSplit struct {
	CreatedAt    time.Time
	ID           string
	Source       AccountRef
	Recipient    AccountRef
	FeeCollector AccountRef
	Authority    Principal
	Amount       uint64
	Fee          uint64
	Net          uint64
}
