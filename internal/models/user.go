package models

import (
	"time"

	"github.com/lib/pq"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleTeacher   UserRole = "TEACHER"
	RoleModerator UserRole = "MODERATOR"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string         `db:"id" bson:"_id" json:"id"`
	Email        string         `db:"email" bson:"email" json:"email"`
	PasswordHash string         `db:"password_hash" bson:"password_hash" json:"-"`
	FullName     string         `db:"full_name" bson:"nome" json:"nome"`
	Role         UserRole       `db:"role" bson:"role" json:"role"`
	ClassIDs     pq.StringArray `db:"class_ids" bson:"turmas_permitidas" json:"turmas_permitidas"`
	Active       bool           `db:"active" bson:"ativo" json:"ativo"`
	LastLogin    *time.Time     `db:"last_login" bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time      `db:"created_at" bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" bson:"updated_at" json:"updated_at"`
}

// CanAccessClass reports whether the user may read or write data of a class.
// An empty class list grants access to every class.
func CanAccessClass(role UserRole, classIDs []string, classID string) bool {
	if role == RoleAdmin || len(classIDs) == 0 {
		return true
	}
	for _, id := range classIDs {
		if id == classID {
			return true
		}
	}
	return false
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
