package enums

import "fmt"

// ApprovalStatus tracks moderation of seller-submitted products.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// String implements fmt.Stringer.
func (a ApprovalStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ApprovalStatus.
func (a ApprovalStatus) IsValid() bool {
	switch a {
	case ApprovalStatusPending,
		ApprovalStatusApproved,
		ApprovalStatusRejected:
		return true
	}
	return false
}

// ParseApprovalStatus converts raw input into a ApprovalStatus.
func ParseApprovalStatus(value string) (ApprovalStatus, error) {
	parsed := ApprovalStatus(value)
	if !parsed.IsValid() {
		return "", fmt.Errorf("invalid approval status %q", value)
	}
	return parsed, nil
}
