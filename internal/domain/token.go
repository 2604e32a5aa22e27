package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// TokenByteLength is the entropy of an access token before hex encoding.
const TokenByteLength = 48

// AccessToken is one issued showroom credential. An order owns one row per
// paid unit of the target product; rows are append-only and never updated.
type AccessToken struct {
	ID                string
	OrderID           string
	SeqNo             int
	Token             string
	OrderNumber       *int64
	Email             string
	ContactEmail      string
	CustomerEmail     string
	CustomerFirstName string
	CustomerLastName  string
	BillingName       string
	ShippingName      string
	FinancialStatus   string
	Test              bool
	OrderCreatedAt    time.Time
	ProcessedAt       *time.Time
	CancelledAt       *time.Time
	CreatedAt         time.Time
}

// NormalizedOrder is the validated shape of an inbound webhook payload.
type NormalizedOrder struct {
	OrderID           string
	OrderNumber       *int64
	LineItems         []LineItem
	FinancialStatus   string
	Recipient         string
	Email             string
	ContactEmail      string
	CustomerEmail     string
	CustomerFirstName string
	CustomerLastName  string
	BillingName       string
	ShippingName      string
	Test              bool
	CreatedAt         time.Time
	ProcessedAt       *time.Time
	CancelledAt       *time.Time
}

type LineItem struct {
	ProductID string
	// Quantity is the parsed line quantity, 0 when absent or unparseable.
	Quantity int
}

// NewToken returns a fresh high-entropy access token: 48 random bytes,
// hex-encoded to 96 characters.
func NewToken() (string, error) {
	buf := make([]byte, TokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
