package enums

import "fmt"

// SellerStatus tracks a user's seller-programme standing.
type SellerStatus string

const (
	SellerStatusInactive  SellerStatus = "inactive"
	SellerStatusPending   SellerStatus = "pending"
	SellerStatusApproved  SellerStatus = "approved"
	SellerStatusSuspended SellerStatus = "suspended"
)

// String implements fmt.Stringer.
func (s SellerStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SellerStatus.
func (s SellerStatus) IsValid() bool {
	switch s {
	case SellerStatusInactive,
		SellerStatusPending,
		SellerStatusApproved,
		SellerStatusSuspended:
		return true
	}
	return false
}

// ParseSellerStatus converts raw input into a SellerStatus.
func ParseSellerStatus(value string) (SellerStatus, error) {
	parsed := SellerStatus(value)
	if !parsed.IsValid() {
		return "", fmt.Errorf("invalid seller status %q", value)
	}
	return parsed, nil
}
