package usecase

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/showroomlab/showroom-token-service/internal/domain"
)

// maxSafeInteger is the largest integer a JSON number can carry without
// losing precision (2^53 - 1).
const maxSafeInteger = 1<<53 - 1

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02",
}

// NormalizeOrder validates an untyped webhook payload and produces a
// NormalizedOrder. It is a pure transform with no side effects.
func NormalizeOrder(payload map[string]any) (*domain.NormalizedOrder, error) {
	orderID, ok := normalizeOrderID(payloadValue(payload, "id", "order_id", "orderId"))
	if !ok {
		return nil, domain.NewValidationError(domain.CodeInvalidOrderID)
	}

	customer, _ := payload["customer"].(map[string]any)
	billing, _ := payload["billing_address"].(map[string]any)
	shipping, _ := payload["shipping_address"].(map[string]any)

	order := &domain.NormalizedOrder{
		OrderID:           orderID,
		OrderNumber:       optionalInt64(payloadValue(payload, "order_number", "orderNumber")),
		LineItems:         normalizeLineItems(payloadValue(payload, "line_items", "lineItems")),
		FinancialStatus:   resolveFirst(payload["financial_status"], payload["financialStatus"]),
		Email:             resolveFirst(payload["email"]),
		ContactEmail:      resolveFirst(payload["contact_email"], payload["contactEmail"]),
		CustomerEmail:     resolveFirst(customer["email"]),
		CustomerFirstName: resolveFirst(customer["first_name"], customer["firstName"]),
		CustomerLastName:  resolveFirst(customer["last_name"], customer["lastName"]),
		BillingName:       resolveFirst(billing["name"]),
		ShippingName:      resolveFirst(shipping["name"]),
	}
	order.Recipient = resolveFirst(order.Email, order.ContactEmail, order.CustomerEmail)

	if v, ok := payload["test"].(bool); ok {
		order.Test = v
	}

	if created := payloadValue(payload, "created_at", "createdAt"); created == nil {
		order.CreatedAt = time.Now()
	} else if t, ok := parseTimestamp(created); ok {
		order.CreatedAt = t
	} else {
		return nil, domain.NewValidationError(domain.CodeInvalidTimestamp)
	}

	order.ProcessedAt = optionalTimestamp(payloadValue(payload, "processed_at", "processedAt"))
	order.CancelledAt = optionalTimestamp(payloadValue(payload, "cancelled_at", "cancelledAt"))

	return order, nil
}

// payloadValue returns the first non-nil value among the given keys.
func payloadValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// resolveFirst returns the first candidate that is a non-empty string.
// Candidate order encodes field precedence, so callers stay independent of
// the payload shape.
func resolveFirst(candidates ...any) string {
	for _, c := range candidates {
		if s, ok := c.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// normalizeOrderID accepts a numeric string, a safe positive integer, or a
// big-integer-like value and returns its canonical string form.
func normalizeOrderID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, digitsOnly(id)
	case json.Number:
		s := id.String()
		if digitsOnly(s) {
			return s, true
		}
		return "", false
	case float64:
		if id <= 0 || id > maxSafeInteger || id != float64(int64(id)) {
			return "", false
		}
		return strconv.FormatInt(int64(id), 10), true
	default:
		return "", false
	}
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	nonZero := false
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		if r != '0' {
			nonZero = true
		}
	}
	return nonZero
}

func normalizeLineItems(v any) []domain.LineItem {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	items := make([]domain.LineItem, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, domain.LineItem{
			ProductID: stringifyID(payloadValue(m, "product_id", "productId")),
			Quantity:  intQuantity(m["quantity"]),
		})
	}
	return items
}

// stringifyID renders a product identifier for string comparison against the
// configured target product.
func stringifyID(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case json.Number:
		return id.String()
	case float64:
		if id == float64(int64(id)) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

// intQuantity parses a line-item quantity, returning 0 when the value is
// absent, non-integer, or non-positive. The classifier treats 0 as "default
// to one unit".
func intQuantity(v any) int {
	switch q := v.(type) {
	case json.Number:
		n, err := q.Int64()
		if err != nil || n <= 0 {
			return 0
		}
		return int(n)
	case float64:
		if q <= 0 || q != float64(int64(q)) {
			return 0
		}
		return int(q)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(q))
		if err != nil || n <= 0 {
			return 0
		}
		return n
	default:
		return 0
	}
}

func parseTimestamp(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func optionalTimestamp(v any) *time.Time {
	if v == nil {
		return nil
	}
	t, ok := parseTimestamp(v)
	if !ok {
		return nil
	}
	return &t
}

func optionalInt64(v any) *int64 {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil
		}
		return &i
	case float64:
		if n != float64(int64(n)) {
			return nil
		}
		i := int64(n)
		return &i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return nil
		}
		return &i
	default:
		return nil
	}
}
