// Package adminusers manages back-office accounts and the role hierarchy
// that gates who may manage whom.
package adminusers

import "time"

// Roles, strongest first. They form a strict total order.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleStaff      = "staff"
)

// AdminUser represents the item stored in the admin-users table.
type AdminUser struct {
	UserID    string    `dynamodbav:"user_id"` // PK
	Username  string    `dynamodbav:"username"`
	Email     string    `dynamodbav:"email"`
	Role      string    `dynamodbav:"role"`
	Active    bool      `dynamodbav:"active"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}
