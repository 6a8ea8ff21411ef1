package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/events"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/policy"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

type classService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    eventEmitter
}

func NewClassService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) ClassService {
	return &classService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    eventEmitter{publisher: publisher, logger: logger},
	}
}

func (s *classService) CreateClass(ctx context.Context, actor *models.User, req *CreateClassRequest) (*models.Class, error) {
	if err := authorize(actor, policy.ActionCreateClass, policy.Target{}, "class", nil, "only administrators can create classes"); err != nil {
		return nil, err
	}

	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	teacher, err := s.repo.User().GetByID(ctx, req.TeacherID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load teacher: %w", err)
	}
	if teacher == nil || teacher.Role != models.RoleTeacher {
		return nil, NewValidationError("teacher_id", "must reference an existing teacher")
	}

	class := &models.Class{
		Name:        strings.TrimSpace(req.Name),
		Subject:     strings.TrimSpace(req.Subject),
		TeacherID:   teacher.ID,
		Enrollments: []models.ClassEnrollment{},
	}
	if err := s.repo.Class().Create(ctx, nil, class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}
	class.Teacher = teacher

	s.logger.Info("Class created", "class_id", class.ID, "teacher_id", teacher.ID, "actor_id", actor.ID)
	s.events.emit(ctx, events.ClassCreated, events.ClassEventData{ClassID: class.ID, TeacherID: class.TeacherID, ActorID: actor.ID})

	return class, nil
}

func (s *classService) Enroll(ctx context.Context, actor *models.User, classID uint, studentID string) (*models.Class, error) {
	class, err := s.getClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, policy.ActionEnroll, policy.Target{OwnerID: class.TeacherID}, "class", classID, "not the class teacher"); err != nil {
		return nil, err
	}

	if strings.TrimSpace(studentID) == "" {
		return nil, NewValidationError("student_id", "is required")
	}

	student, err := s.repo.User().GetByID(ctx, studentID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, studentID, "failed to load student")
	}
	if student.Role != models.RoleStudent {
		return nil, NewValidationError("student_id", "user is not a student")
	}

	return s.addToRoster(ctx, actor, class, student.ID)
}

func (s *classService) SelfEnroll(ctx context.Context, actor *models.User, classID uint) (*models.Class, error) {
	class, err := s.getClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	if actor == nil || actor.Role != models.RoleStudent {
		return nil, NewPermissionError(actorID(actor), classID, "class", string(policy.ActionSelfEnroll), "only students can self-enroll")
	}
	if class.HasStudent(actor.ID) {
		return nil, NewConflictError("class", "already enrolled in this class")
	}

	return s.addToRoster(ctx, actor, class, actor.ID)
}

func (s *classService) addToRoster(ctx context.Context, actor *models.User, class *models.Class, studentID string) (*models.Class, error) {
	if class.HasStudent(studentID) {
		return nil, NewConflictError("class", "student is already enrolled in this class")
	}

	if err := s.repo.Class().AddStudent(ctx, nil, class.ID, studentID); err != nil {
		switch {
		case repositories.IsDuplicateError(err):
			return nil, NewConflictError("class", "student is already enrolled in this class")
		case repositories.IsNotFoundError(err):
			return nil, NewNotFoundError("class", class.ID)
		}
		return nil, fmt.Errorf("failed to enroll student: %w", err)
	}

	s.logger.Info("Student enrolled", "class_id", class.ID, "student_id", studentID, "actor_id", actor.ID)
	s.events.emit(ctx, events.ClassStudentEnrolled, events.ClassEventData{ClassID: class.ID, TeacherID: class.TeacherID, StudentID: studentID, ActorID: actor.ID})

	return s.getClass(ctx, class.ID)
}

func (s *classService) Unenroll(ctx context.Context, actor *models.User, classID uint, studentID string) (*models.Class, error) {
	class, err := s.getClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, policy.ActionUnenroll, policy.Target{OwnerID: class.TeacherID}, "class", classID, "not the class teacher"); err != nil {
		return nil, err
	}

	wasEnrolled := class.HasStudent(studentID)
	if err := s.repo.Class().RemoveStudent(ctx, nil, classID, studentID); err != nil {
		return nil, notFoundOr(err, ErrClassNotFound, classID, "failed to remove student")
	}

	if wasEnrolled {
		s.logger.Info("Student removed from class", "class_id", classID, "student_id", studentID, "actor_id", actor.ID)
		s.events.emit(ctx, events.ClassStudentUnenrolled, events.ClassEventData{ClassID: classID, TeacherID: class.TeacherID, StudentID: studentID, ActorID: actor.ID})
	}

	return s.getClass(ctx, classID)
}

func (s *classService) ListClasses(ctx context.Context, actor *models.User) ([]*models.Class, error) {
	filters, ok, err := s.classScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*models.Class{}, nil
	}

	classes, err := s.repo.Class().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

// classScope returns the class filter for actor; ok is false when the actor can see no class
func (s *classService) classScope(ctx context.Context, actor *models.User) (repositories.ClassFilters, bool, error) {
	switch actor.Role {
	case models.RoleAdmin:
		return repositories.ClassFilters{}, true, nil
	case models.RoleTeacher:
		return repositories.ClassFilters{TeacherID: ptr(actor.ID)}, true, nil
	case models.RoleStudent:
		return repositories.ClassFilters{StudentID: ptr(actor.ID)}, true, nil
	case models.RoleParent:
		child, err := linkedChild(ctx, s.repo.User(), actor)
		if err != nil || child == nil {
			return repositories.ClassFilters{}, false, err
		}
		return repositories.ClassFilters{StudentID: ptr(child.ID)}, true, nil
	}
	return repositories.ClassFilters{}, false, fmt.Errorf("unknown role %q", actor.Role)
}

func (s *classService) GetClassStudents(ctx context.Context, actor *models.User, classID uint) ([]*models.User, error) {
	class, err := s.getClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, policy.ActionViewClassRoster, policy.Target{OwnerID: class.TeacherID}, "class", classID, "cannot view roster"); err != nil {
		return nil, err
	}

	return class.Students(), nil
}

func (s *classService) getClass(ctx context.Context, classID uint) (*models.Class, error) {
	class, err := s.repo.Class().GetByID(ctx, nil, classID)
	if err != nil {
		return nil, notFoundOr(err, ErrClassNotFound, classID, "failed to load class")
	}
	return class, nil
}

func actorID(actor *models.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
