package validator

import (
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

// ===== AUTH & USERS =====

// RegisterRequest is used by self sign-up and by admin user creation
type RegisterRequest struct {
	Username  string          `json:"username" validate:"required,min=3,max=100"`
	Email     string          `json:"email" validate:"required,email,max=255"`
	Password  string          `json:"password" validate:"required,min=6,max=128"`
	Role      models.UserRole `json:"role" validate:"required,user_role"`
	FullName  string          `json:"full_name" validate:"omitempty,max=100"`
	StudentID *string         `json:"student_id" validate:"omitempty,min=1,max=64"`
}

// LoginRequest accepts a username or an email in Username
type LoginRequest struct {
	Username string           `json:"username" validate:"required"`
	Password string           `json:"password" validate:"required"`
	Role     *models.UserRole `json:"role" validate:"omitempty,user_role"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ===== CLASSES =====

type CreateClassRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Subject   string `json:"subject" validate:"required,min=1,max=100"`
	TeacherID string `json:"teacher_id" validate:"required"`
}

type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

// ===== ASSIGNMENTS =====

type CreateAssignmentRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=200"`
	Description string    `json:"description" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	ClassID     uint      `json:"class_id" validate:"required"`
	MaxScore    *int      `json:"max_score" validate:"omitempty,min=1"`
}

type SubmitRequest struct {
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

// GradeRequest holds a partial grade write; nil fields are stored as unset
type GradeRequest struct {
	Grade    *float64 `json:"grade" validate:"omitempty,grade_range"`
	Score    *float64 `json:"score" validate:"omitempty,gte=0"`
	Feedback *string  `json:"feedback" validate:"omitempty,max=5000"`
	MaxScore *int     `json:"max_score" validate:"omitempty,min=1"`
}

// ===== FEED =====

type CreateAnnouncementRequest struct {
	Title       string            `json:"title" validate:"required,min=1,max=200"`
	Content     string            `json:"content" validate:"required"`
	TargetRoles []models.UserRole `json:"target_roles" validate:"omitempty,dive,user_role"`
}

type CreateScheduleRequest struct {
	Title        string   `json:"title" validate:"required,min=1,max=200"`
	Description  *string  `json:"description"`
	Date         string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string   `json:"start_time" validate:"required,hhmm"`
	EndTime      *string  `json:"end_time" validate:"omitempty,hhmm"`
	Participants []string `json:"participants" validate:"omitempty,dive,required"`
}
