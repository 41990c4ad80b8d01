package domain

import "time"

// Event types
const (
	EventTypeFeeSplitCompleted = "fee_split.completed"
	EventTypeAccountOpened     = "account.opened"
)

// Aggregate types
const (
	AggregateTypeFeeSplit = "fee_split"
	AggregateTypeAccount  = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// FeeSplitCompletedPayload builds the payload of a fee_split.completed event.
// Amounts are decimal strings so that consumers never truncate 64-bit values.
func FeeSplitCompletedPayload(fs *FeeSplit) map[string]any {
	return map[string]any{
		"fee_split_id":  fs.ID,
		"source":        fs.Source.String(),
		"recipient":     fs.Recipient.String(),
		"fee_collector": fs.FeeCollector.String(),
		"amount":        formatUint(fs.Amount),
		"fee":           formatUint(fs.Fee),
		"net":           formatUint(fs.Net),
		"created_at":    fs.CreatedAt.Format(time.RFC3339Nano),
	}
}

// AccountOpenedPayload builds the payload of an account.opened event.
func AccountOpenedPayload(acc *TokenAccount) map[string]any {
	return map[string]any{
		"address": acc.Address.String(),
		"owner":   acc.Owner.String(),
		"mint":    acc.Mint,
		"balance": formatUint(acc.Balance),
	}
}
