package models

// UserRole represents the two roles the gateway gates on. Values match
// what the legacy backend returns on login.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
)

// SessionUser is the session snapshot persisted per authenticated
// user: identity plus role, nothing else. It is written on login,
// rewritten on profile edit and cleared on logout.
type SessionUser struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}
