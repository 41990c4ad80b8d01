package dto

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inspi-writer001/feesplit/internal/domain"
)

// Amounts are rendered as decimal strings; JSON numbers lose precision above 2^53.

// FeeSplitResponse represents a completed fee split in API responses.
type FeeSplitResponse struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Recipient    string    `json:"recipient"`
	FeeCollector string    `json:"fee_collector"`
	Authority    string    `json:"authority"`
	Amount       string    `json:"amount"`
	Fee          string    `json:"fee"`
	Net          string    `json:"net"`
	CreatedAt    time.Time `json:"created_at"`
}

// FeeSplitFromDomain converts a domain fee split to a response.
func FeeSplitFromDomain(fs *domain.FeeSplit) *FeeSplitResponse {
	return &FeeSplitResponse{
		ID:           fs.ID,
		Source:       fs.Source.String(),
		Recipient:    fs.Recipient.String(),
		FeeCollector: fs.FeeCollector.String(),
		Authority:    fs.Authority.String(),
		Amount:       u64(fs.Amount),
		Fee:          u64(fs.Fee),
		Net:          u64(fs.Net),
		CreatedAt:    fs.CreatedAt,
	}
}

// FeeSplitsFromDomain converts domain fee splits to responses.
func FeeSplitsFromDomain(splits []*domain.FeeSplit) []*FeeSplitResponse {
	result := make([]*FeeSplitResponse, len(splits))
	for i, fs := range splits {
		result[i] = FeeSplitFromDomain(fs)
	}
	return result
}

// QuoteResponse is the fee breakdown of an amount.
type QuoteResponse struct {
	Amount   string `json:"amount"`
	Fee      string `json:"fee"`
	Net      string `json:"net"`
	FeeRate  string `json:"fee_rate"`
	UIAmount string `json:"ui_amount,omitempty"`
	UIFee    string `json:"ui_fee,omitempty"`
	UINet    string `json:"ui_net,omitempty"`
}

// QuoteFromDomain converts a split to a response. UI fields are filled when
// decimals is positive.
func QuoteFromDomain(s domain.Split, decimals int32) *QuoteResponse {
	q := &QuoteResponse{
		Amount:  u64(s.Amount),
		Fee:     u64(s.Fee),
		Net:     u64(s.Net),
		FeeRate: FeeRate().String(),
	}

	if decimals > 0 {
		q.UIAmount = domain.FromBaseUnits(s.Amount, decimals).String()
		q.UIFee = domain.FromBaseUnits(s.Fee, decimals).String()
		q.UINet = domain.FromBaseUnits(s.Net, decimals).String()
	}

	return q
}

// FeeRate is the fee as a fraction of the amount.
func FeeRate() decimal.Decimal {
	return decimal.NewFromInt(int64(domain.FeeRateNumerator)).Div(decimal.NewFromInt(int64(domain.FeeRateDenominator)))
}

// AccountResponse represents a token account in API responses.
type AccountResponse struct {
	Address   string    `json:"address"`
	Owner     string    `json:"owner"`
	Mint      string    `json:"mint"`
	Balance   string    `json:"balance"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.TokenAccount) *AccountResponse {
	return &AccountResponse{
		Address:   a.Address.String(),
		Owner:     a.Owner.String(),
		Mint:      a.Mint,
		Balance:   u64(a.Balance),
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

func u64(v uint64) string {
	return strconv.FormatUint(v, 10)
}
