package models

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

type Schedule struct {
	ID           uint                        `json:"id" gorm:"primaryKey"`
	Title        string                      `json:"title" gorm:"not null;size:200"`
	Description  *string                     `json:"description,omitempty" gorm:"type:text"`
	Date         time.Time                   `json:"date" gorm:"not null;index"`
	StartTime    string                      `json:"start_time" gorm:"not null;size:5"`
	EndTime      *string                     `json:"end_time,omitempty" gorm:"size:5"`
	CreatedBy    string                      `json:"created_by" gorm:"not null;index;size:255"`
	Participants datatypes.JSONSlice[string] `json:"participants" gorm:"type:jsonb"`
	CreatedAt    time.Time                   `json:"created_at"`

	Creator *User `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// Involves reports whether userID created the schedule or is one of its participants.
func (s *Schedule) Involves(userID string) bool {
	return s.CreatedBy == userID || slices.Contains(s.Participants, userID)
}
