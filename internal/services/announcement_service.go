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

type announcementService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	events    eventEmitter
}

func NewAnnouncementService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) AnnouncementService {
	return &announcementService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		events:    eventEmitter{publisher: publisher, logger: logger},
	}
}

func (s *announcementService) Create(ctx context.Context, actor *models.User, req *CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := authorize(actor, policy.ActionCreateAnnouncement, policy.Target{}, "announcement", nil, "only teachers and administrators can post announcements"); err != nil {
		return nil, err
	}

	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	targets := req.TargetRoles
	if targets == nil {
		targets = []models.UserRole{}
	}

	announcement := &models.Announcement{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		AuthorID:    actor.ID,
		TargetRoles: targets,
		IsActive:    true,
	}
	if err := s.repo.Announcement().Create(ctx, nil, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	announcement.Author = actor

	roles := make([]string, 0, len(targets))
	for _, r := range targets {
		roles = append(roles, string(r))
	}
	s.logger.Info("Announcement created", "announcement_id", announcement.ID, "actor_id", actor.ID)
	s.events.emit(ctx, events.AnnouncementCreated, events.AnnouncementEventData{
		AnnouncementID: announcement.ID,
		AuthorID:       actor.ID,
		TargetRoles:    roles,
	})

	return announcement, nil
}

// List returns the announcements targeting the actor's role plus those the actor wrote
func (s *announcementService) List(ctx context.Context, actor *models.User) ([]*models.Announcement, error) {
	announcements, err := s.repo.Announcement().ListVisible(ctx, nil, repositories.AnnouncementFilters{
		Role:            actor.Role,
		IncludeAuthorID: actor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}
