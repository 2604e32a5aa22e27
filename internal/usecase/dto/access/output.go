package access

import "time"

// LoginOutput carries the order and customer fields looked up by token.
type LoginOutput struct {
	OrderID           string
	OrderNumber       *int64
	Email             string
	CustomerFirstName string
	CustomerLastName  string
	BillingName       string
	ShippingName      string
	FinancialStatus   string
	Test              bool
	OrderCreatedAt    time.Time
	ProcessedAt       *time.Time
}

type ResendOutput struct {
	// Orders counts distinct orders that received a message.
	Orders int
	Tokens int
}
