package models

import "time"

type SubmissionStatus string

const (
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionLate      SubmissionStatus = "late"
	SubmissionGraded    SubmissionStatus = "graded"
)

const (
	DefaultMaxScore = 100
	MinGrade        = 0
	MaxGrade        = 100
)

type Assignment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:200"`
	Description string    `json:"description" gorm:"type:text;not null"`
	DueDate     time.Time `json:"due_date" gorm:"not null;index"`
	ClassID     uint      `json:"class_id" gorm:"not null;index"`
	// TeacherID is copied from the class at creation and never follows later reassignment.
	TeacherID string    `json:"teacher_id" gorm:"not null;index;size:255"`
	MaxScore  int       `json:"max_score" gorm:"not null;default:100"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Class       *Class       `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Teacher     *User        `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Submissions []Submission `json:"submissions" gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// SubmissionBy returns the submission of studentID, or nil.
func (a *Assignment) SubmissionBy(studentID string) *Submission {
	for i := range a.Submissions {
		if a.Submissions[i].StudentID == studentID {
			return &a.Submissions[i]
		}
	}
	return nil
}

// IsPending reports whether the due date is still ahead of now.
func (a *Assignment) IsPending(now time.Time) bool {
	return a.DueDate.After(now)
}

type Submission struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AssignmentID uint      `json:"assignment_id" gorm:"not null;uniqueIndex:idx_submission_assignment_student"`
	StudentID    string    `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_submission_assignment_student"`
	SubmittedAt  time.Time `json:"submitted_at" gorm:"not null"`

	FileRef     *string `json:"file_ref,omitempty" gorm:"size:500"`
	FileName    *string `json:"file_name,omitempty" gorm:"size:255"`
	Description *string `json:"description,omitempty" gorm:"type:text"`

	// Grading
	Grade    *float64   `json:"grade,omitempty"`
	Score    *float64   `json:"score,omitempty"`
	Feedback *string    `json:"feedback,omitempty" gorm:"type:text"`
	GradedAt *time.Time `json:"graded_at,omitempty"`
	GradedBy *string    `json:"graded_by,omitempty" gorm:"size:255"`

	Status SubmissionStatus `json:"status" gorm:"not null;size:20;default:submitted"`

	Student *User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) IsGraded() bool {
	return s.Status == SubmissionGraded
}
