package order

// StoredResponse is returned when the delivery minted at least one token.
type StoredResponse struct {
	Status        string   `json:"status"`
	CreatedTokens []string `json:"createdTokens"`
	TotalTokens   int      `json:"totalTokens"`
}

// AlreadyProcessedResponse is returned for an idempotent re-delivery.
type AlreadyProcessedResponse struct {
	Status string   `json:"status"`
	Tokens []string `json:"tokens"`
}

type IgnoredResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}
