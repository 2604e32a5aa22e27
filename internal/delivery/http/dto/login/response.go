package login

import "time"

type LoginResponse struct {
	OrderID           string     `json:"orderId"`
	OrderNumber       *int64     `json:"orderNumber,omitempty"`
	Email             string     `json:"email,omitempty"`
	CustomerFirstName string     `json:"customerFirstName,omitempty"`
	CustomerLastName  string     `json:"customerLastName,omitempty"`
	BillingName       string     `json:"billingName,omitempty"`
	ShippingName      string     `json:"shippingName,omitempty"`
	FinancialStatus   string     `json:"financialStatus,omitempty"`
	Test              bool       `json:"test"`
	CreatedAt         time.Time  `json:"createdAt"`
	ProcessedAt       *time.Time `json:"processedAt,omitempty"`
}
