package enums

import "fmt"

// PurchaseOrderStatus tracks the lifecycle of a supplier purchase order.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// String implements fmt.Stringer.
func (p PurchaseOrderStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PurchaseOrderStatus.
func (p PurchaseOrderStatus) IsValid() bool {
	switch p {
	case PurchaseOrderStatusDraft,
		PurchaseOrderStatusOrdered,
		PurchaseOrderStatusReceived,
		PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// ParsePurchaseOrderStatus converts raw input into a PurchaseOrderStatus.
func ParsePurchaseOrderStatus(value string) (PurchaseOrderStatus, error) {
	parsed := PurchaseOrderStatus(value)
	if !parsed.IsValid() {
		return "", fmt.Errorf("invalid purchase order status %q", value)
	}
	return parsed, nil
}
