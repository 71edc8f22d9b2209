package enums

import "fmt"

// StockReason classifies why a product's stock level changed.
type StockReason string

const (
	StockReasonRestock       StockReason = "restock"
	StockReasonDamage        StockReason = "damage"
	StockReasonAdjustment    StockReason = "adjustment"
	StockReasonReturn        StockReason = "return"
	StockReasonOrder         StockReason = "order"
	StockReasonPurchaseOrder StockReason = "purchase_order"
	StockReasonOther         StockReason = "other"
)

// String implements fmt.Stringer.
func (s StockReason) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockReason.
func (s StockReason) IsValid() bool {
	switch s {
	case StockReasonRestock,
		StockReasonDamage,
		StockReasonAdjustment,
		StockReasonReturn,
		StockReasonOrder,
		StockReasonPurchaseOrder,
		StockReasonOther:
		return true
	}
	return false
}

// ParseStockReason converts raw input into a StockReason.
func ParseStockReason(value string) (StockReason, error) {
	parsed := StockReason(value)
	if !parsed.IsValid() {
		return "", fmt.Errorf("invalid stock reason %q", value)
	}
	return parsed, nil
}
