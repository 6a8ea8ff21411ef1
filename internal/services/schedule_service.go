package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/policy"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

type scheduleService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewScheduleService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ScheduleService {
	return &scheduleService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *scheduleService) Create(ctx context.Context, actor *models.User, req *CreateScheduleRequest) (*models.Schedule, error) {
	if err := authorize(actor, policy.ActionCreateSchedule, policy.Target{}, "schedule", nil, "authentication required"); err != nil {
		return nil, err
	}

	date, errs := s.validator.GetBusinessValidator().ValidateSchedule(req)
	if len(errs) > 0 {
		return nil, errs
	}

	participants := req.Participants
	if participants == nil {
		participants = []string{}
	}

	schedule := &models.Schedule{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		CreatedBy:    actor.ID,
		Participants: participants,
	}
	if err := s.repo.Schedule().Create(ctx, nil, schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	schedule.Creator = actor

	s.logger.Info("Schedule created", "schedule_id", schedule.ID, "participants", len(participants), "actor_id", actor.ID)
	return schedule, nil
}

// List returns every schedule to staff and only the schedules involving the actor to everyone else
func (s *scheduleService) List(ctx context.Context, actor *models.User) ([]*models.Schedule, error) {
	filters := repositories.ScheduleFilters{InvolvingUserID: actor.ID}
	if actor.Role == models.RoleAdmin || actor.Role == models.RoleTeacher {
		filters = repositories.ScheduleFilters{}
	}

	schedules, err := s.repo.Schedule().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}
