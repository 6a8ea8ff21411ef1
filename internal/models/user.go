package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
	RoleParent  UserRole = "parent"
)

// AllRoles lists every role in display order.
var AllRoles = []UserRole{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

// IsValid reports whether r is one of the four known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:255"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FullName     string   `json:"full_name" gorm:"size:100"`
	PasswordHash string   `json:"-" gorm:"size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index"`

	// StudentID is the external school id. Students own it, parents share it to link a child.
	StudentID *string `json:"student_id,omitempty" gorm:"size:64;index"`

	IsActive    bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// LinkedStudentID returns the external student id or "" when unset.
func (u *User) LinkedStudentID() string {
	if u == nil || u.StudentID == nil {
		return ""
	}
	return *u.StudentID
}

// UserSummary is the public projection embedded in other records.
type UserSummary struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email,omitempty"`
	Role      UserRole `json:"role,omitempty"`
	StudentID *string  `json:"student_id,omitempty"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		StudentID: u.StudentID,
	}
}
