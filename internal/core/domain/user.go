package domain

import "time"

// UserRole enumerates account roles.
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleClient UserRole = "client"
)

// User mirrors the persisted representation in the users table.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// CanAdminister reports whether the user may operate on other tenants.
func (u User) CanAdminister() bool {
	return u.Role == UserRoleAdmin
}
