package services

import (
	"context"
	"io"
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type ForgotPasswordRequest = validator.ForgotPasswordRequest
type CreateClassRequest = validator.CreateClassRequest
type CreateAssignmentRequest = validator.CreateAssignmentRequest
type GradeRequest = validator.GradeRequest
type CreateAnnouncementRequest = validator.CreateAnnouncementRequest
type CreateScheduleRequest = validator.CreateScheduleRequest

// UploadedFile is a file received with a submission
type UploadedFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

type SubmitInput struct {
	File        *UploadedFile
	Description *string
}

// SubmissionsView is the grading view of one assignment
type SubmissionsView struct {
	Assignment          *models.Assignment `json:"assignment"`
	ClassStudents       []*models.User     `json:"class_students"`
	UnsubmittedStudents []*models.User     `json:"unsubmitted_students"`
}

// StatCard is one dashboard statistic. Value is a count or a formatted string.
type StatCard struct {
	Label       string      `json:"label"`
	Value       interface{} `json:"value"`
	Description string      `json:"description"`
}

type DashboardView struct {
	User           *models.UserSummary    `json:"user"`
	Announcements  []*models.Announcement `json:"announcements"`
	Schedules      []*models.Schedule     `json:"schedules"`
	Classes        []*models.Class        `json:"classes"`
	Assignments    []*models.Assignment   `json:"assignments"`
	DashboardStats []StatCard             `json:"dashboard_stats"`

	// admin only
	Teachers []*models.User `json:"teachers,omitempty"`
	Students []*models.User `json:"students,omitempty"`

	// parent only
	Child *models.UserSummary `json:"child,omitempty"`
}

// GradeEntry is one row of the grades listing
type GradeEntry struct {
	AssignmentID    uint                    `json:"assignment_id"`
	AssignmentTitle string                  `json:"assignment_title"`
	ClassName       string                  `json:"class_name"`
	TeacherName     string                  `json:"teacher_name,omitempty"`
	StudentName     string                  `json:"student_name,omitempty"`
	StudentID       string                  `json:"student_id,omitempty"`
	DueDate         time.Time               `json:"due_date"`
	SubmittedAt     time.Time               `json:"submitted_at"`
	Grade           *float64                `json:"grade,omitempty"`
	Score           *float64                `json:"score,omitempty"`
	MaxScore        int                     `json:"max_score"`
	Feedback        *string                 `json:"feedback,omitempty"`
	Status          models.SubmissionStatus `json:"status"`
	GradedAt        *time.Time              `json:"graded_at,omitempty"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type AdminDataView struct {
	Teachers []*models.User  `json:"teachers"`
	Students []*models.User  `json:"students"`
	Classes  []*models.Class `json:"classes"`
}

type SeedResult struct {
	Created []string `json:"created"`
	Failed  []string `json:"failed"`
}

// ===== SERVICE INTERFACES =====

type ClassService interface {
	CreateClass(ctx context.Context, actor *models.User, req *CreateClassRequest) (*models.Class, error)
	Enroll(ctx context.Context, actor *models.User, classID uint, studentID string) (*models.Class, error)
	SelfEnroll(ctx context.Context, actor *models.User, classID uint) (*models.Class, error)
	Unenroll(ctx context.Context, actor *models.User, classID uint, studentID string) (*models.Class, error)
	ListClasses(ctx context.Context, actor *models.User) ([]*models.Class, error)
	GetClassStudents(ctx context.Context, actor *models.User, classID uint) ([]*models.User, error)
}

type AssignmentService interface {
	CreateAssignment(ctx context.Context, actor *models.User, req *CreateAssignmentRequest) (*models.Assignment, error)
	ListAssignments(ctx context.Context, actor *models.User) ([]*models.Assignment, error)
	Submit(ctx context.Context, actor *models.User, assignmentID uint, input SubmitInput) (*models.Submission, error)
	Grade(ctx context.Context, actor *models.User, assignmentID uint, studentID string, req *GradeRequest) (*models.Submission, error)
	DeleteAssignment(ctx context.Context, actor *models.User, assignmentID uint) error
	GetSubmissions(ctx context.Context, actor *models.User, assignmentID uint) (*SubmissionsView, error)
}

type DashboardService interface {
	GetDashboard(ctx context.Context, actor *models.User) (*DashboardView, error)
}

type GradeService interface {
	GetGrades(ctx context.Context, actor *models.User) ([]GradeEntry, error)
	ExportGrades(ctx context.Context, actor *models.User) ([]byte, error)
}

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	ResolveActor(ctx context.Context, token string) (*models.User, error)
	ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error
}

type UserService interface {
	CreateUser(ctx context.Context, actor *models.User, req *RegisterRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actor *models.User, userID string) error
	GetAdminData(ctx context.Context, actor *models.User) (*AdminDataView, error)
}

type AnnouncementService interface {
	Create(ctx context.Context, actor *models.User, req *CreateAnnouncementRequest) (*models.Announcement, error)
	List(ctx context.Context, actor *models.User) ([]*models.Announcement, error)
}

type ScheduleService interface {
	Create(ctx context.Context, actor *models.User, req *CreateScheduleRequest) (*models.Schedule, error)
	List(ctx context.Context, actor *models.User) ([]*models.Schedule, error)
}

type SeedService interface {
	SeedSampleData(ctx context.Context) (*SeedResult, error)
}

// ServiceManager manages all services
type ServiceManager interface {
	// Core services
	Class() ClassService
	Assignment() AssignmentService
	Dashboard() DashboardService
	Grade() GradeService

	// Supporting services
	Auth() AuthService
	User() UserService
	Announcement() AnnouncementService
	Schedule() ScheduleService
	Seed() SeedService

	// Lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
