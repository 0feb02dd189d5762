package models

// RoleType defines the account role of a user
type RoleType string

const (
	RoleUser    RoleType = "USER"
	RoleCompany RoleType = "COMPANY"
	RoleAdmin   RoleType = "ADMIN"
)

// IsValid reports whether r is a known role.
func (r RoleType) IsValid() bool {
	switch r {
	case RoleUser, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// IsSelfAssignable reports whether r may be chosen at registration.
func (r RoleType) IsSelfAssignable() bool {
	return r == RoleUser || r == RoleCompany
}

// Actor identifies the caller of a service operation
type Actor struct {
	ID   int64
	Role RoleType
}

// IsAdmin reports whether the actor has the ADMIN role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
