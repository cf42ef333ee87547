package entity

import "time"

// Staff roles
const (
	RoleManager   = "manager"
	RoleDirector  = "director"
	RoleSecretary = "secretary"
	RoleEmployee  = "employee"
)

// Roles lists every assignable role.
var Roles = []string{RoleManager, RoleDirector, RoleSecretary, RoleEmployee}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Capability names checked by the API and offered by the dashboard.
const (
	CapModify            = "modify"
	CapAddToStock        = "add_to_stock"
	CapWithdrawFromStock = "withdraw_from_stock"
)

// Capabilities is the role gate. The server enforces it, the dashboard uses it to
// decide which actions to offer.
type Capabilities struct {
	CanModify            bool `json:"canModify"`
	CanAddToStock        bool `json:"canAddToStock"`
	CanWithdrawFromStock bool `json:"canWithdrawFromStock"`
}

// CapabilitiesFor maps a role to its capabilities. Unknown roles get nothing.
func CapabilitiesFor(role string) Capabilities {
	return Capabilities{
		CanModify:            role == RoleManager,
		CanAddToStock:        role == RoleManager || role == RoleSecretary,
		CanWithdrawFromStock: role == RoleManager || role == RoleDirector || role == RoleEmployee,
	}
}

// Allows checks a capability by name.
func (c Capabilities) Allows(capability string) bool {
	switch capability {
	case CapModify:
		return c.CanModify
	case CapAddToStock:
		return c.CanAddToStock
	case CapWithdrawFromStock:
		return c.CanWithdrawFromStock
	}
	return false
}

// User staff account
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Username     string    `json:"username" gorm:"size:64;not null;uniqueIndex"`
	FullName     string    `json:"full_name" gorm:"size:128;not null"`
	Role         string    `json:"role" gorm:"size:20;not null;index"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// SessionUser is the identity returned by login.
type SessionUser struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}
