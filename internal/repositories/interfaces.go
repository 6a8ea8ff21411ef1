package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ClassFilters struct {
	TeacherID *string `json:"teacher_id"`
	StudentID *string `json:"student_id"` // classes whose roster contains the student
}

type AssignmentFilters struct {
	TeacherID *string `json:"teacher_id"`
	ClassIDs  []uint  `json:"class_ids"` // nil means no class filter, empty means no match
}

type AnnouncementFilters struct {
	Role            models.UserRole `json:"role"`
	IncludeAuthorID string          `json:"include_author_id"` // also return announcements written by this user
	Limit           int             `json:"limit"`
}

type ScheduleFilters struct {
	InvolvingUserID string `json:"involving_user_id"` // empty returns every schedule
}

// SubmissionGrade carries a grade write. MaxScore, when set, replaces the assignment-wide max score.
type SubmissionGrade struct {
	Grade    *float64
	Score    *float64
	Feedback *string
	GradedBy string
	GradedAt time.Time
	MaxScore *int
}

// ===== REPOSITORY INTERFACES =====

type ClassRepository interface {
	Create(ctx context.Context, tx *gorm.DB, class *models.Class) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error)
	List(ctx context.Context, tx *gorm.DB, filters ClassFilters) ([]*models.Class, error)

	// Roster operations are single atomic writes against the class roster.
	AddStudent(ctx context.Context, tx *gorm.DB, classID uint, studentID string) error
	RemoveStudent(ctx context.Context, tx *gorm.DB, classID uint, studentID string) error
	IsEnrolled(ctx context.Context, tx *gorm.DB, classID uint, studentID string) (bool, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error)
	List(ctx context.Context, tx *gorm.DB, filters AssignmentFilters) ([]*models.Assignment, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// UpsertSubmission replaces the student's submission in place, or inserts the first one.
	UpsertSubmission(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GradeSubmission(ctx context.Context, tx *gorm.DB, assignmentID uint, studentID string, grade SubmissionGrade) (*models.Submission, error)
}

type AnnouncementRepository interface {
	Create(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error)
	ListVisible(ctx context.Context, tx *gorm.DB, filters AnnouncementFilters) ([]*models.Announcement, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Schedule, error)
	List(ctx context.Context, tx *gorm.DB, filters ScheduleFilters) ([]*models.Schedule, error)
}
