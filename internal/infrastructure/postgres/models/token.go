package models

import (
	"time"
)

// AccessTokenModel is the append-only ledger row: one row per issued token.
// (order_id, seq_no) is unique so two concurrent reconciliations can never
// both insert a full set; token is globally unique.
type AccessTokenModel struct {
	ID                string `gorm:"primaryKey;type:uuid"`
	OrderID           string `gorm:"not null;index:idx_access_tokens_order_id;uniqueIndex:ux_access_tokens_order_seq,priority:1"`
	SeqNo             int    `gorm:"not null;uniqueIndex:ux_access_tokens_order_seq,priority:2"`
	Token             string `gorm:"not null;uniqueIndex:ux_access_tokens_token"`
	OrderNumber       *int64
	Email             string `gorm:"index:idx_access_tokens_email"`
	ContactEmail      string `gorm:"index:idx_access_tokens_contact_email"`
	CustomerEmail     string `gorm:"index:idx_access_tokens_customer_email"`
	CustomerFirstName string
	CustomerLastName  string
	BillingName       string
	ShippingName      string
	FinancialStatus   string
	Test              bool
	OrderCreatedAt    time.Time
	ProcessedAt       *time.Time
	CancelledAt       *time.Time
	CreatedAt         time.Time `gorm:"index:idx_access_tokens_created_at"`
}

func (AccessTokenModel) TableName() string {
	return "access_tokens"
}
