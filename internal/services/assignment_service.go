package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/events"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/policy"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/storage"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

// ErrUploadsDisabled is returned when a file is submitted but no file store is configured
var ErrUploadsDisabled = errors.New("file uploads are not configured")

type assignmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    eventEmitter
	files     storage.FileStore
	now       Clock
}

func NewAssignmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, files storage.FileStore, now Clock) AssignmentService {
	return &assignmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    eventEmitter{publisher: publisher, logger: logger},
		files:     files,
		now:       now,
	}
}

// ===== LIFECYCLE =====

func (s *assignmentService) CreateAssignment(ctx context.Context, actor *models.User, req *CreateAssignmentRequest) (*models.Assignment, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	class, err := s.repo.Class().GetByID(ctx, nil, req.ClassID)
	if err != nil {
		return nil, notFoundOr(err, ErrClassNotFound, req.ClassID, "failed to load class")
	}

	if err := authorize(actor, policy.ActionCreateAssignment, policy.Target{OwnerID: class.TeacherID}, "class", class.ID, "not the class teacher"); err != nil {
		return nil, err
	}

	maxScore := models.DefaultMaxScore
	if req.MaxScore != nil {
		maxScore = *req.MaxScore
	}

	assignment := &models.Assignment{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate,
		ClassID:     class.ID,
		TeacherID:   class.TeacherID,
		MaxScore:    maxScore,
	}
	if err := s.repo.Assignment().Create(ctx, nil, assignment); err != nil {
		return nil, notFoundOr(err, ErrClassNotFound, req.ClassID, "failed to create assignment")
	}

	s.logger.Info("Assignment created", "assignment_id", assignment.ID, "class_id", class.ID, "actor_id", actor.ID)
	s.events.emit(ctx, events.AssignmentCreated, events.AssignmentEventData{
		AssignmentID: assignment.ID,
		ClassID:      class.ID,
		TeacherID:    assignment.TeacherID,
		DueDate:      assignment.DueDate,
		ActorID:      actor.ID,
	})

	return s.getAssignment(ctx, assignment.ID)
}

func (s *assignmentService) Submit(ctx context.Context, actor *models.User, assignmentID uint, input SubmitInput) (*models.Submission, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	enrolled := false
	if actor != nil {
		enrolled, err = s.repo.Class().IsEnrolled(ctx, nil, assignment.ClassID, actor.ID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
	}

	if err := authorize(actor, policy.ActionSubmit, policy.Target{ActorEnrolled: enrolled}, "assignment", assignmentID, "not enrolled in the class"); err != nil {
		return nil, err
	}

	if errs := s.validator.Struct(&validator.SubmitRequest{Description: input.Description}); len(errs) > 0 {
		return nil, errs
	}

	submission := &models.Submission{
		AssignmentID: assignmentID,
		StudentID:    actor.ID,
		SubmittedAt:  s.now(),
		Description:  input.Description,
		Status:       models.SubmissionSubmitted,
	}

	if input.File != nil {
		if s.files == nil {
			return nil, ErrUploadsDisabled
		}
		ref, err := s.files.Store(ctx, input.File.Name, input.File.Content, input.File.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to store submission file: %w", err)
		}
		submission.FileRef = &ref
		submission.FileName = ptr(input.File.Name)
	}

	if err := s.repo.Assignment().UpsertSubmission(ctx, nil, submission); err != nil {
		if submission.FileRef != nil {
			s.discardFile(ctx, *submission.FileRef)
		}
		return nil, notFoundOr(err, ErrAssignmentNotFound, assignmentID, "failed to save submission")
	}

	submission.Status = EvaluateSubmissionStatus(submission, assignment.DueDate)
	submission.Student = actor

	s.logger.Info("Submission received", "assignment_id", assignmentID, "student_id", actor.ID, "status", submission.Status)
	s.events.emit(ctx, events.SubmissionReceived, events.SubmissionEventData{
		AssignmentID: assignmentID,
		SubmissionID: submission.ID,
		StudentID:    actor.ID,
		Status:       string(submission.Status),
		ActorID:      actor.ID,
	})

	return submission, nil
}

func (s *assignmentService) Grade(ctx context.Context, actor *models.User, assignmentID uint, studentID string, req *GradeRequest) (*models.Submission, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, policy.ActionGrade, policy.Target{OwnerID: assignment.TeacherID}, "assignment", assignmentID, "not the assignment teacher"); err != nil {
		return nil, err
	}

	if assignment.SubmissionBy(studentID) == nil {
		return nil, NewNotFoundError(ErrSubmissionNotFound.Resource, studentID)
	}

	if errs := s.validator.GetBusinessValidator().ValidateGrade(req); len(errs) > 0 {
		return nil, errs
	}

	graded, err := s.repo.Assignment().GradeSubmission(ctx, nil, assignmentID, studentID, repositories.SubmissionGrade{
		Grade:    req.Grade,
		Score:    req.Score,
		Feedback: req.Feedback,
		GradedBy: actor.ID,
		GradedAt: s.now(),
		MaxScore: req.MaxScore,
	})
	if err != nil {
		return nil, notFoundOr(err, ErrSubmissionNotFound, studentID, "failed to grade submission")
	}
	graded.Status = EvaluateSubmissionStatus(graded, assignment.DueDate)

	s.logger.Info("Submission graded", "assignment_id", assignmentID, "student_id", studentID, "actor_id", actor.ID)
	s.events.emit(ctx, events.SubmissionGraded, events.SubmissionEventData{
		AssignmentID: assignmentID,
		SubmissionID: graded.ID,
		StudentID:    studentID,
		Status:       string(graded.Status),
		Grade:        graded.Grade,
		Score:        graded.Score,
		ActorID:      actor.ID,
	})

	return graded, nil
}

func (s *assignmentService) DeleteAssignment(ctx context.Context, actor *models.User, assignmentID uint) error {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}

	if err := authorize(actor, policy.ActionDeleteAssignment, policy.Target{OwnerID: assignment.TeacherID}, "assignment", assignmentID, "not the assignment teacher"); err != nil {
		return err
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.Assignment().Delete(ctx, nil, assignmentID)
	})
	if err != nil {
		return notFoundOr(err, ErrAssignmentNotFound, assignmentID, "failed to delete assignment")
	}

	s.logger.Info("Assignment deleted", "assignment_id", assignmentID, "submissions", len(assignment.Submissions), "actor_id", actor.ID)
	s.events.emit(ctx, events.AssignmentDeleted, events.AssignmentEventData{
		AssignmentID: assignmentID,
		ClassID:      assignment.ClassID,
		TeacherID:    assignment.TeacherID,
		DueDate:      assignment.DueDate,
		ActorID:      actor.ID,
	})
	return nil
}

// ===== READS =====

func (s *assignmentService) ListAssignments(ctx context.Context, actor *models.User) ([]*models.Assignment, error) {
	filters, ok, err := s.assignmentScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*models.Assignment{}, nil
	}

	assignments, err := s.repo.Assignment().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return evaluateAll(assignments), nil
}

// assignmentScope returns the assignment filter for actor; ok is false when nothing is visible
func (s *assignmentService) assignmentScope(ctx context.Context, actor *models.User) (repositories.AssignmentFilters, bool, error) {
	var studentID string
	switch actor.Role {
	case models.RoleAdmin:
		return repositories.AssignmentFilters{}, true, nil
	case models.RoleTeacher:
		return repositories.AssignmentFilters{TeacherID: ptr(actor.ID)}, true, nil
	case models.RoleStudent:
		studentID = actor.ID
	case models.RoleParent:
		child, err := linkedChild(ctx, s.repo.User(), actor)
		if err != nil || child == nil {
			return repositories.AssignmentFilters{}, false, err
		}
		studentID = child.ID
	default:
		return repositories.AssignmentFilters{}, false, fmt.Errorf("unknown role %q", actor.Role)
	}

	classes, err := s.repo.Class().List(ctx, nil, repositories.ClassFilters{StudentID: &studentID})
	if err != nil {
		return repositories.AssignmentFilters{}, false, fmt.Errorf("failed to list classes: %w", err)
	}
	return repositories.AssignmentFilters{ClassIDs: classIDs(classes)}, true, nil
}

func (s *assignmentService) GetSubmissions(ctx context.Context, actor *models.User, assignmentID uint) (*SubmissionsView, error) {
	assignment, err := s.getAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, policy.ActionViewSubmissions, policy.Target{OwnerID: assignment.TeacherID}, "assignment", assignmentID, "not the assignment teacher"); err != nil {
		return nil, err
	}

	class, err := s.repo.Class().GetByID(ctx, nil, assignment.ClassID)
	if err != nil {
		return nil, notFoundOr(err, ErrClassNotFound, assignment.ClassID, "failed to load class")
	}

	view := &SubmissionsView{
		Assignment:          assignment,
		ClassStudents:       class.Students(),
		UnsubmittedStudents: make([]*models.User, 0),
	}
	for _, student := range view.ClassStudents {
		if assignment.SubmissionBy(student.ID) == nil {
			view.UnsubmittedStudents = append(view.UnsubmittedStudents, student)
		}
	}
	return view, nil
}

// getAssignment loads an assignment with evaluated submission statuses
func (s *assignmentService) getAssignment(ctx context.Context, assignmentID uint) (*models.Assignment, error) {
	assignment, err := s.repo.Assignment().GetByID(ctx, nil, assignmentID)
	if err != nil {
		return nil, notFoundOr(err, ErrAssignmentNotFound, assignmentID, "failed to load assignment")
	}
	EvaluateStatus(assignment)
	return assignment, nil
}

// discardFile removes an uploaded file whose submission was never saved
func (s *assignmentService) discardFile(ctx context.Context, ref string) {
	if err := s.files.Delete(context.WithoutCancel(ctx), ref); err != nil {
		s.logger.Warn("Failed to remove orphaned submission file", "file_ref", ref, "error", err)
	}
}
