package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Profile shares its id with the identity provider subject.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToggledRole flips customer <-> admin.
func ToggledRole(current string) string {
	if current == RoleAdmin {
		return RoleCustomer
	}
	return RoleAdmin
}
