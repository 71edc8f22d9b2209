package enums

import "fmt"

// LegacyRole is the scalar role column that predates the RBAC tables.
// Deprecated in favour of role assignments but still consulted by the
// resolver for backward compatibility.
type LegacyRole string

const (
	LegacyRoleAdmin    LegacyRole = "admin"
	LegacyRoleCustomer LegacyRole = "customer"
)

// String implements fmt.Stringer.
func (l LegacyRole) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LegacyRole.
func (l LegacyRole) IsValid() bool {
	switch l {
	case LegacyRoleAdmin,
		LegacyRoleCustomer:
		return true
	}
	return false
}

// ParseLegacyRole converts raw input into a LegacyRole.
func ParseLegacyRole(value string) (LegacyRole, error) {
	parsed := LegacyRole(value)
	if !parsed.IsValid() {
		return "", fmt.Errorf("invalid legacy role %q", value)
	}
	return parsed, nil
}
