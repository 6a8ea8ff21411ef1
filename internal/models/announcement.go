package models

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

type Announcement struct {
	ID          uint                          `json:"id" gorm:"primaryKey"`
	Title       string                        `json:"title" gorm:"not null;size:200"`
	Content     string                        `json:"content" gorm:"type:text;not null"`
	AuthorID    string                        `json:"author_id" gorm:"not null;index;size:255"`
	TargetRoles datatypes.JSONSlice[UserRole] `json:"target_roles" gorm:"type:jsonb"`
	IsActive    bool                          `json:"is_active" gorm:"default:true;index"`
	CreatedAt   time.Time                     `json:"created_at" gorm:"index"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (Announcement) TableName() string {
	return "announcements"
}

// VisibleTo reports whether the announcement targets role. An empty target list means everyone.
func (a *Announcement) VisibleTo(role UserRole) bool {
	if !a.IsActive {
		return false
	}
	return len(a.TargetRoles) == 0 || slices.Contains(a.TargetRoles, role)
}
