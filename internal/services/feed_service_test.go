package services

import (
	"errors"
	"testing"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

func TestAnnouncementService(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "t1", models.RoleTeacher, "")
	student := env.createUser(t, "s1", models.RoleStudent, "STU1")
	parent := env.createUser(t, "p1", models.RoleParent, "STU1")
	announcements := env.services.Announcement()

	if _, err := announcements.Create(env.ctx, student, &CreateAnnouncementRequest{Title: "Hi", Content: "x"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("Create() by student error = %v, want forbidden", err)
	}

	everyone, err := announcements.Create(env.ctx, teacher, &CreateAnnouncementRequest{Title: "Term dates", Content: "Starts Monday"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if everyone.TargetRoles == nil || len(everyone.TargetRoles) != 0 {
		t.Errorf("TargetRoles = %v, want empty list", everyone.TargetRoles)
	}
	if _, err := announcements.Create(env.ctx, teacher, &CreateAnnouncementRequest{Title: "PTA", Content: "Friday", TargetRoles: []models.UserRole{models.RoleParent}}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name  string
		actor *models.User
		want  int
	}{
		{name: "author sees own posts", actor: teacher, want: 2},
		{name: "parent sees targeted and general", actor: parent, want: 2},
		{name: "student sees general only", actor: student, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := announcements.List(env.ctx, tt.actor)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("List() = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestScheduleService(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "t1", models.RoleTeacher, "")
	s1 := env.createUser(t, "s1", models.RoleStudent, "STU1")
	s2 := env.createUser(t, "s2", models.RoleStudent, "STU2")
	schedules := env.services.Schedule()

	if _, err := schedules.Create(env.ctx, s1, &CreateScheduleRequest{Title: "Study group", Date: "2025-02-01", StartTime: "14:00", EndTime: stringPtr("15:00")}); err != nil {
		t.Fatalf("Create() by student error = %v", err)
	}
	if _, err := schedules.Create(env.ctx, s1, &CreateScheduleRequest{Title: "Bad", Date: "2025-02-01", StartTime: "15:00", EndTime: stringPtr("14:00")}); !IsValidationError(err) {
		t.Errorf("Create() with end before start error = %v, want validation error", err)
	}

	tests := []struct {
		name  string
		actor *models.User
		want  int
	}{
		{name: "creator", actor: s1, want: 1},
		{name: "uninvolved student", actor: s2, want: 0},
		{name: "teacher sees all", actor: teacher, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schedules.List(env.ctx, tt.actor)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("List() = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSeedService_SeedSampleData(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.services.Seed().SeedSampleData(env.ctx)
	if err != nil {
		t.Fatalf("SeedSampleData() error = %v", err)
	}
	if len(result.Failed) != 0 || len(result.Created) != len(sampleUsers)+1 {
		t.Fatalf("SeedSampleData() = %+v", result)
	}

	parent, err := env.repo.User().GetByLogin(env.ctx, "parent1")
	if err != nil {
		t.Fatalf("GetByLogin(parent1) error = %v", err)
	}
	view, err := env.services.Dashboard().GetDashboard(env.ctx, parent)
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	if view.Child == nil || view.Child.Username != "student1" || len(view.Assignments) != 1 {
		t.Errorf("parent dashboard after seeding = child %+v, %d assignments", view.Child, len(view.Assignments))
	}

	// a second run reuses every account and adds no content
	again, err := env.services.Seed().SeedSampleData(env.ctx)
	if err != nil {
		t.Fatalf("second SeedSampleData() error = %v", err)
	}
	if len(again.Created) != 0 || len(again.Failed) != 0 {
		t.Errorf("second SeedSampleData() = %+v, want nothing created", again)
	}
}
