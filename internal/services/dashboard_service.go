package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/policy"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

// DashboardAnnouncementLimit caps the announcements shown on a dashboard
const DashboardAnnouncementLimit = 10

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
	now    Clock
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger, now Clock) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
		now:    now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, actor *models.User) (*DashboardView, error) {
	if err := authorize(actor, policy.ActionReadDashboard, policy.Target{SubjectID: actorID(actor)}, "dashboard", nil, "cannot read dashboard"); err != nil {
		return nil, err
	}

	strategy, err := s.strategyFor(actor.Role)
	if err != nil {
		return nil, err
	}

	view := &DashboardView{User: actor.Summary()}

	view.Announcements, err = s.repo.Announcement().ListVisible(ctx, nil, repositories.AnnouncementFilters{
		Role:  actor.Role,
		Limit: DashboardAnnouncementLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load announcements: %w", err)
	}

	view.Schedules, err = s.repo.Schedule().List(ctx, nil, repositories.ScheduleFilters{InvolvingUserID: actor.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}

	if err := strategy.compute(ctx, actor, view); err != nil {
		return nil, err
	}

	evaluateAll(view.Assignments)
	if view.Classes == nil {
		view.Classes = []*models.Class{}
	}
	if view.Assignments == nil {
		view.Assignments = []*models.Assignment{}
	}

	s.logger.Debug("Dashboard built", "user_id", actor.ID, "role", actor.Role, "classes", len(view.Classes), "assignments", len(view.Assignments))
	return view, nil
}

// strategyFor selects the per-role dashboard computation
func (s *dashboardService) strategyFor(role models.UserRole) (dashboardStrategy, error) {
	switch role {
	case models.RoleAdmin:
		return adminDashboard{repo: s.repo}, nil
	case models.RoleTeacher:
		return teacherDashboard{repo: s.repo, now: s.now}, nil
	case models.RoleStudent:
		return studentDashboard{repo: s.repo, now: s.now}, nil
	case models.RoleParent:
		return parentDashboard{repo: s.repo, now: s.now}, nil
	}
	return nil, fmt.Errorf("no dashboard for role %q", role)
}
