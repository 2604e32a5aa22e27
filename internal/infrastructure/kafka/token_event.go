package kafka

// TokenIssuedEvent is published after the ledger transaction commits, once
// per delivery that minted at least one token.
type TokenIssuedEvent struct {
	OrderID      string `json:"order_id"`
	OrderNumber  int64  `json:"order_number,omitempty"`
	Recipient    string `json:"recipient"`
	CreatedCount int    `json:"created_count"`
	TotalCount   int    `json:"total_count"`
	Test         bool   `json:"test"`
}
