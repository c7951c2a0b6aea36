// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of role a user can have in the marketplace.
type Role string

const (
	// RoleCustomer is the default role of every new account.
	RoleCustomer Role = "CUSTOMER"
	// RoleSeller owns medicines in the catalog and fulfils orders.
	RoleSeller Role = "SELLER"
	// RoleManager is reserved for store managers.
	RoleManager Role = "MANAGER"
	// RoleAdmin can manage every user, medicine and order.
	RoleAdmin Role = "ADMIN"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// Roles is a set of roles declared by a route or an operation.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}
