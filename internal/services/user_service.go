package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/events"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/policy"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    eventEmitter
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    eventEmitter{publisher: publisher, logger: logger},
	}
}

// CreateUser adds an account on behalf of an administrator. Only students keep a student id.
func (s *userService) CreateUser(ctx context.Context, actor *models.User, req *RegisterRequest) (*models.User, error) {
	if err := authorize(actor, policy.ActionManageUsers, policy.Target{}, "user", nil, "only administrators can manage users"); err != nil {
		return nil, err
	}

	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := newUser(ctx, s.repo.User(), req, req.Role == models.RoleStudent)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created", "user_id", user.ID, "role", user.Role, "actor_id", actor.ID)
	s.events.emit(ctx, events.UserCreated, events.UserEventData{UserID: user.ID, Role: string(user.Role), ActorID: actor.ID})
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *models.User, userID string) error {
	if err := authorize(actor, policy.ActionManageUsers, policy.Target{}, "user", userID, "only administrators can manage users"); err != nil {
		return err
	}
	if userID == actor.ID {
		return NewValidationError("id", "cannot delete your own account")
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, ErrUserNotFound, userID, "failed to load user")
	}

	if err := s.repo.User().Delete(ctx, userID); err != nil {
		return notFoundOr(err, ErrUserNotFound, userID, "failed to delete user")
	}

	s.logger.Info("User deleted", "user_id", userID, "role", user.Role, "actor_id", actor.ID)
	s.events.emit(ctx, events.UserDeleted, events.UserEventData{UserID: userID, Role: string(user.Role), ActorID: actor.ID})
	return nil
}

func (s *userService) GetAdminData(ctx context.Context, actor *models.User) (*AdminDataView, error) {
	if err := authorize(actor, policy.ActionViewAdminData, policy.Target{}, "admin_data", nil, "administrators only"); err != nil {
		return nil, err
	}

	teachers, err := s.repo.User().List(ctx, repositories.UserFilters{Role: ptr(models.RoleTeacher)})
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	students, err := s.repo.User().List(ctx, repositories.UserFilters{Role: ptr(models.RoleStudent)})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	classes, err := s.repo.Class().List(ctx, nil, repositories.ClassFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}

	return &AdminDataView{Teachers: teachers, Students: students, Classes: classes}, nil
}
