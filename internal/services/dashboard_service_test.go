package services

import (
	"errors"
	"testing"
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

func statValue(t *testing.T, view *DashboardView, label string) interface{} {
	t.Helper()
	for _, card := range view.DashboardStats {
		if card.Label == label {
			return card.Value
		}
	}
	t.Fatalf("stat %q missing from %+v", label, view.DashboardStats)
	return nil
}

func TestDashboardService_ParentDashboards(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", models.RoleAdmin, "")
	t1 := env.createUser(t, "t1", models.RoleTeacher, "")
	s1 := env.createUser(t, "s1", models.RoleStudent, "STU1")
	p1 := env.createUser(t, "p1", models.RoleParent, "STU1")
	p2 := env.createUser(t, "p2", models.RoleParent, "STU999")

	c1 := env.createClass(t, admin, t1)
	if _, err := env.services.Class().Enroll(env.ctx, t1, c1.ID, s1.ID); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	graded := env.createAssignment(t, t1, c1.ID, env.now.Add(-24*time.Hour))
	env.createAssignment(t, t1, c1.ID, env.now.Add(72*time.Hour))
	env.submit(t, s1, graded.ID, "answers")
	if _, err := env.services.Assignment().Grade(env.ctx, t1, graded.ID, s1.ID, &GradeRequest{Grade: floatPtr(85)}); err != nil {
		t.Fatalf("Grade() error = %v", err)
	}

	t.Run("linked parent", func(t *testing.T) {
		view, err := env.services.Dashboard().GetDashboard(env.ctx, p1)
		if err != nil {
			t.Fatalf("GetDashboard() error = %v", err)
		}
		if view.Child == nil || view.Child.ID != s1.ID {
			t.Fatalf("Child = %+v, want %s", view.Child, s1.ID)
		}
		if len(view.Classes) != 1 || len(view.Assignments) != 2 {
			t.Errorf("classes = %d, assignments = %d", len(view.Classes), len(view.Assignments))
		}
		if got := statValue(t, view, "Child's Assignments"); got != 2 {
			t.Errorf("Child's Assignments = %v, want 2", got)
		}
		if got := statValue(t, view, "Pending"); got != 1 {
			t.Errorf("Pending = %v, want 1", got)
		}
		if got := statValue(t, view, "Submitted"); got != 1 {
			t.Errorf("Submitted = %v, want 1", got)
		}
		if got := statValue(t, view, "Average Grade"); got != "85%" {
			t.Errorf("Average Grade = %v, want 85%%", got)
		}
	})

	t.Run("unlinked parent", func(t *testing.T) {
		view, err := env.services.Dashboard().GetDashboard(env.ctx, p2)
		if err != nil {
			t.Fatalf("GetDashboard() error = %v", err)
		}
		if view.Child != nil {
			t.Errorf("Child = %+v, want none", view.Child)
		}
		if view.Classes == nil || view.Assignments == nil || len(view.Classes) != 0 || len(view.Assignments) != 0 {
			t.Errorf("want empty non-nil lists, got classes=%v assignments=%v", view.Classes, view.Assignments)
		}
		if got := statValue(t, view, "Child's Assignments"); got != 0 {
			t.Errorf("Child's Assignments = %v, want 0", got)
		}
		if got := statValue(t, view, "Average Grade"); got != "N/A" {
			t.Errorf("Average Grade = %v, want N/A", got)
		}
	})
}

func TestDashboardService_RoleStats(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", models.RoleAdmin, "")
	t1 := env.createUser(t, "t1", models.RoleTeacher, "")
	s1 := env.createUser(t, "s1", models.RoleStudent, "STU1")
	s2 := env.createUser(t, "s2", models.RoleStudent, "STU2")

	c1 := env.createClass(t, admin, t1)
	for _, s := range []*models.User{s1, s2} {
		if _, err := env.services.Class().Enroll(env.ctx, t1, c1.ID, s.ID); err != nil {
			t.Fatalf("Enroll() error = %v", err)
		}
	}
	a1 := env.createAssignment(t, t1, c1.ID, env.now.Add(time.Hour))
	env.createAssignment(t, t1, c1.ID, env.now.Add(-time.Hour))
	env.submit(t, s1, a1.ID, "done")

	tests := []struct {
		name  string
		actor *models.User
		want  map[string]interface{}
	}{
		{
			name:  "admin",
			actor: admin,
			want:  map[string]interface{}{"Total Users": int64(4), "Active Teachers": int64(1), "Active Students": int64(2), "Total Classes": int64(1)},
		},
		{
			name:  "teacher",
			actor: t1,
			want:  map[string]interface{}{"My Classes": 1, "Total Students": 2, "Pending Assignments": 1, "Total Assignments": 2},
		},
		{
			name:  "student",
			actor: s1,
			want:  map[string]interface{}{"Enrolled Classes": 1, "Pending Assignments": 0, "Submitted Assignments": 1, "Total Assignments": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := env.services.Dashboard().GetDashboard(env.ctx, tt.actor)
			if err != nil {
				t.Fatalf("GetDashboard() error = %v", err)
			}
			if len(view.DashboardStats) != 4 {
				t.Fatalf("stats = %d, want 4", len(view.DashboardStats))
			}
			for label, want := range tt.want {
				if got := statValue(t, view, label); got != want {
					t.Errorf("%s = %v (%T), want %v", label, got, got, want)
				}
			}
		})
	}
}

func TestDashboardService_AnnouncementsAndSchedules(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "t1", models.RoleTeacher, "")
	student := env.createUser(t, "s1", models.RoleStudent, "STU1")
	parent := env.createUser(t, "p1", models.RoleParent, "STU1")

	if _, err := env.services.Announcement().Create(env.ctx, teacher, &CreateAnnouncementRequest{Title: "Exams", Content: "Next week", TargetRoles: []models.UserRole{models.RoleStudent}}); err != nil {
		t.Fatalf("Create announcement error = %v", err)
	}
	if _, err := env.services.Schedule().Create(env.ctx, teacher, &CreateScheduleRequest{Title: "Review", Date: "2025-01-10", StartTime: "10:00", Participants: []string{student.ID}}); err != nil {
		t.Fatalf("Create schedule error = %v", err)
	}

	studentView, err := env.services.Dashboard().GetDashboard(env.ctx, student)
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	if len(studentView.Announcements) != 1 || len(studentView.Schedules) != 1 {
		t.Errorf("student sees %d announcements, %d schedules; want 1, 1", len(studentView.Announcements), len(studentView.Schedules))
	}

	parentView, err := env.services.Dashboard().GetDashboard(env.ctx, parent)
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	if len(parentView.Announcements) != 0 || len(parentView.Schedules) != 0 {
		t.Errorf("parent sees %d announcements, %d schedules; want none", len(parentView.Announcements), len(parentView.Schedules))
	}
}

func TestDashboardService_RequiresActor(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.services.Dashboard().GetDashboard(env.ctx, nil); !errors.Is(err, ErrForbidden) {
		t.Errorf("GetDashboard(nil) error = %v, want forbidden", err)
	}
}

func TestFormatAverageGrade(t *testing.T) {
	tests := []struct {
		grades []float64
		want   string
	}{
		{grades: nil, want: "N/A"},
		{grades: []float64{85}, want: "85%"},
		{grades: []float64{80, 91}, want: "86%"},
		{grades: []float64{70, 71, 71}, want: "71%"},
		{grades: []float64{0, 1}, want: "1%"},
		{grades: []float64{87.5}, want: "88%"},
		{grades: []float64{87.5, 90}, want: "89%"},
		{grades: []float64{60.2, 60.2}, want: "60%"},
	}

	for _, tt := range tests {
		if got := formatAverageGrade(tt.grades); got != tt.want {
			t.Errorf("formatAverageGrade(%v) = %q, want %q", tt.grades, got, tt.want)
		}
	}
}
