package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/events"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/policy"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

// Clock returns the current time. Tests replace it to pin submission times.
type Clock func() time.Time

// eventEmitter publishes domain events after a committed mutation.
// A failed publish is logged and never fails the request.
type eventEmitter struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func (e eventEmitter) emit(ctx context.Context, eventType events.EventType, data interface{}) {
	if e.publisher == nil {
		return
	}
	event := events.NewEvent(eventType, data)
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Error("Failed to publish event", "event_type", eventType, "event_id", event.ID, "error", err)
	}
}

// authorize returns a PermissionError when policy denies the action
func authorize(actor *models.User, action policy.Action, target policy.Target, resource string, resourceID interface{}, reason string) error {
	if policy.IsAllowed(actor, action, target) {
		return nil
	}
	return NewPermissionError(actorID(actor), resourceID, resource, string(action), reason)
}

func ptr[T any](v T) *T {
	return &v
}

// linkedChild resolves the student a parent is linked to, or nil when there is none
func linkedChild(ctx context.Context, users repositories.UserRepository, parent *models.User) (*models.User, error) {
	studentID := parent.LinkedStudentID()
	if studentID == "" {
		return nil, nil
	}
	child, err := users.GetByStudentID(ctx, studentID, models.RoleStudent)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve linked child: %w", err)
	}
	return child, nil
}

// classIDs returns the ids of classes, never nil so an empty list filters everything out
func classIDs(classes []*models.Class) []uint {
	ids := make([]uint, 0, len(classes))
	for _, c := range classes {
		ids = append(ids, c.ID)
	}
	return ids
}
