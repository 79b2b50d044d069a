package domain

// Role type to distinguish between user roles carried in access tokens.
type Role string

const (
	RoleCoach Role = "coach"
	RoleAdmin Role = "admin"
)
