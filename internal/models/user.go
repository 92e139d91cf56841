package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMentor UserRole = "mentor"
	RoleParent UserRole = "parent"
)
