package enums

import "fmt"

// ProductCondition describes the physical state of a listed gadget.
type ProductCondition string

const (
	ProductConditionNew         ProductCondition = "new"
	ProductConditionRefurbished ProductCondition = "refurbished"
	ProductConditionUsed        ProductCondition = "used"
)

// String implements fmt.Stringer.
func (p ProductCondition) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCondition.
func (p ProductCondition) IsValid() bool {
	switch p {
	case ProductConditionNew,
		ProductConditionRefurbished,
		ProductConditionUsed:
		return true
	}
	return false
}

// ParseProductCondition converts raw input into a ProductCondition.
func ParseProductCondition(value string) (ProductCondition, error) {
	parsed := ProductCondition(value)
	if !parsed.IsValid() {
		return "", fmt.Errorf("invalid product condition %q", value)
	}
	return parsed, nil
}
