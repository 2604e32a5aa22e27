package usecase

import (
	"strings"

	"github.com/showroomlab/showroom-token-service/internal/domain"
)

// Classification is the eligibility verdict for a normalized order.
type Classification struct {
	Eligible bool
	// Reason is set when Eligible is false.
	Reason string
	// Owed is the token quantity the order is entitled to.
	Owed int
}

// Classify decides whether an order is "target product, paid, not cancelled"
// and computes the owed token quantity. Product match is evaluated before
// payment and cancellation status.
func Classify(order *domain.NormalizedOrder, targetProductID string) Classification {
	owed := 0
	for _, item := range order.LineItems {
		if item.ProductID != targetProductID {
			continue
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		owed += qty
	}

	if owed == 0 {
		return Classification{Reason: domain.ReasonProductMismatch}
	}
	if !strings.EqualFold(order.FinancialStatus, "paid") || order.CancelledAt != nil {
		return Classification{Reason: domain.ReasonUnsuccessfulOrder}
	}
	return Classification{Eligible: true, Owed: owed}
}
