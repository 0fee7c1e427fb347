package models

import "time"

// Role is the permission tier attached to a user and embedded in tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a raw role string onto the closed set of known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
