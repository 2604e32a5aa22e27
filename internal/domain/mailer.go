package domain

import "context"

// Mailer sends exactly one outbound message per invocation listing the full
// current token set for an order. No internal retry.
type Mailer interface {
	SendTokens(ctx context.Context, recipient string, tokens []string) error
}
