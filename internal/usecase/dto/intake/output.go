package intake

type Status string

const (
	StatusStored           Status = "stored"
	StatusAlreadyProcessed Status = "already_processed"
	StatusIgnored          Status = "ignored"
)

// Result is the outcome of one webhook delivery.
type Result struct {
	Status Status
	// Reason is set for ignored deliveries.
	Reason string
	// Tokens is the full current token set for the order, insertion order.
	Tokens []string
	// Created is the subset minted by this delivery.
	Created []string
}
