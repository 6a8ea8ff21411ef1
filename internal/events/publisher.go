package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "educonnect"
	EventVersion = "1.0"
)

type EventType string

const (
	ClassCreated           EventType = "class.created"
	ClassStudentEnrolled   EventType = "class.student_enrolled"
	ClassStudentUnenrolled EventType = "class.student_unenrolled"
	AssignmentCreated      EventType = "assignment.created"
	AssignmentDeleted      EventType = "assignment.deleted"
	SubmissionReceived     EventType = "submission.received"
	SubmissionGraded       EventType = "submission.graded"
	UserCreated            EventType = "user.created"
	UserDeleted            EventType = "user.deleted"
	AnnouncementCreated    EventType = "announcement.created"
)

// Event is the envelope of every domain event
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events after the mutation they describe has committed
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// ===== PAYLOADS =====

type ClassEventData struct {
	ClassID   uint   `json:"class_id"`
	TeacherID string `json:"teacher_id"`
	StudentID string `json:"student_id,omitempty"`
	ActorID   string `json:"actor_id"`
}

type AssignmentEventData struct {
	AssignmentID uint      `json:"assignment_id"`
	ClassID      uint      `json:"class_id"`
	TeacherID    string    `json:"teacher_id"`
	DueDate      time.Time `json:"due_date"`
	ActorID      string    `json:"actor_id"`
}

type SubmissionEventData struct {
	AssignmentID uint     `json:"assignment_id"`
	SubmissionID uint     `json:"submission_id"`
	StudentID    string   `json:"student_id"`
	Status       string   `json:"status"`
	Grade        *float64 `json:"grade,omitempty"`
	Score        *float64 `json:"score,omitempty"`
	ActorID      string   `json:"actor_id"`
}

type UserEventData struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	ActorID string `json:"actor_id,omitempty"`
}

type AnnouncementEventData struct {
	AnnouncementID uint     `json:"announcement_id"`
	AuthorID       string   `json:"author_id"`
	TargetRoles    []string `json:"target_roles"`
}
