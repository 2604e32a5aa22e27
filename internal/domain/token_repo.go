package domain

import "context"

// ReconcileResult carries the full token set for an order after a
// reconciliation pass, plus the subset minted by that pass.
type ReconcileResult struct {
	Tokens  []string
	Created []string
}

type TokenRepository interface {
	// Reconcile brings the stored token count for order.OrderID up to owed,
	// inserting only the missing delta. It must serialize concurrent calls
	// for the same order id.
	Reconcile(ctx context.Context, order *NormalizedOrder, owed int) (*ReconcileResult, error)
	GetByToken(ctx context.Context, token string) (*AccessToken, error)
	// FindByEmail matches the address against all three recipient columns,
	// ordered by order id and insertion sequence.
	FindByEmail(ctx context.Context, email string) ([]*AccessToken, error)
}
