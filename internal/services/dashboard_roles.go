package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

// dashboardStrategy fills the role-specific part of a dashboard: classes, assignments and stats
type dashboardStrategy interface {
	compute(ctx context.Context, actor *models.User, view *DashboardView) error
}

// ===== ADMIN =====

type adminDashboard struct {
	repo repositories.Repository
}

func (d adminDashboard) compute(ctx context.Context, actor *models.User, view *DashboardView) error {
	var err error
	if view.Classes, err = d.repo.Class().List(ctx, nil, repositories.ClassFilters{}); err != nil {
		return fmt.Errorf("failed to list classes: %w", err)
	}
	if view.Assignments, err = d.repo.Assignment().List(ctx, nil, repositories.AssignmentFilters{}); err != nil {
		return fmt.Errorf("failed to list assignments: %w", err)
	}
	if view.Teachers, err = d.repo.User().List(ctx, repositories.UserFilters{Role: ptr(models.RoleTeacher)}); err != nil {
		return fmt.Errorf("failed to list teachers: %w", err)
	}
	if view.Students, err = d.repo.User().List(ctx, repositories.UserFilters{Role: ptr(models.RoleStudent)}); err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}

	counters := d.repo.Dashboard()
	totalUsers, err := counters.CountUsers(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	activeTeachers, err := counters.CountActiveUsersByRole(ctx, nil, models.RoleTeacher)
	if err != nil {
		return fmt.Errorf("failed to count teachers: %w", err)
	}
	activeStudents, err := counters.CountActiveUsersByRole(ctx, nil, models.RoleStudent)
	if err != nil {
		return fmt.Errorf("failed to count students: %w", err)
	}
	totalClasses, err := counters.CountClasses(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to count classes: %w", err)
	}

	view.DashboardStats = []StatCard{
		{Label: "Total Users", Value: totalUsers, Description: "All system users"},
		{Label: "Active Teachers", Value: activeTeachers, Description: "Teaching staff"},
		{Label: "Active Students", Value: activeStudents, Description: "Enrolled students"},
		{Label: "Total Classes", Value: totalClasses, Description: "Classes created"},
	}
	return nil
}

// ===== TEACHER =====

type teacherDashboard struct {
	repo repositories.Repository
	now  Clock
}

func (d teacherDashboard) compute(ctx context.Context, actor *models.User, view *DashboardView) error {
	var err error
	if view.Classes, err = d.repo.Class().List(ctx, nil, repositories.ClassFilters{TeacherID: &actor.ID}); err != nil {
		return fmt.Errorf("failed to list classes: %w", err)
	}
	if view.Assignments, err = d.repo.Assignment().List(ctx, nil, repositories.AssignmentFilters{TeacherID: &actor.ID}); err != nil {
		return fmt.Errorf("failed to list assignments: %w", err)
	}

	totalStudents := 0
	for _, c := range view.Classes {
		totalStudents += len(c.Enrollments)
	}

	now := d.now()
	pending := 0
	for _, a := range view.Assignments {
		if a.IsPending(now) {
			pending++
		}
	}

	view.DashboardStats = []StatCard{
		{Label: "My Classes", Value: len(view.Classes), Description: "Classes you teach"},
		{Label: "Total Students", Value: totalStudents, Description: "Students across all classes"},
		{Label: "Pending Assignments", Value: pending, Description: "Assignments to be graded"},
		{Label: "Total Assignments", Value: len(view.Assignments), Description: "All assignments created"},
	}
	return nil
}

// ===== STUDENT =====

type studentDashboard struct {
	repo repositories.Repository
	now  Clock
}

func (d studentDashboard) compute(ctx context.Context, actor *models.User, view *DashboardView) error {
	var err error
	if view.Classes, view.Assignments, err = loadStudentWork(ctx, d.repo, actor.ID); err != nil {
		return err
	}

	progress := progressOf(view.Assignments, actor.ID, d.now())
	view.DashboardStats = []StatCard{
		{Label: "Enrolled Classes", Value: len(view.Classes), Description: "Classes you're enrolled in"},
		{Label: "Pending Assignments", Value: progress.pending, Description: "Assignments to submit"},
		{Label: "Submitted Assignments", Value: progress.submitted, Description: "Assignments submitted"},
		{Label: "Total Assignments", Value: len(view.Assignments), Description: "All assignments"},
	}
	return nil
}

// ===== PARENT =====

type parentDashboard struct {
	repo repositories.Repository
	now  Clock
}

func (d parentDashboard) compute(ctx context.Context, actor *models.User, view *DashboardView) error {
	child, err := linkedChild(ctx, d.repo.User(), actor)
	if err != nil {
		return err
	}

	var progress studentProgress
	if child != nil {
		view.Child = child.Summary()
		if view.Classes, view.Assignments, err = loadStudentWork(ctx, d.repo, child.ID); err != nil {
			return err
		}
		progress = progressOf(view.Assignments, child.ID, d.now())
	}

	view.DashboardStats = []StatCard{
		{Label: "Child's Assignments", Value: len(view.Assignments), Description: "Total assignments"},
		{Label: "Pending", Value: progress.pending, Description: "Assignments to complete"},
		{Label: "Submitted", Value: progress.submitted, Description: "Assignments submitted"},
		{Label: "Average Grade", Value: formatAverageGrade(progress.grades), Description: "Child's performance"},
	}
	return nil
}

// ===== SHARED =====

// loadStudentWork returns the classes a student is enrolled in and the assignments of those classes
func loadStudentWork(ctx context.Context, repo repositories.Repository, studentID string) ([]*models.Class, []*models.Assignment, error) {
	classes, err := repo.Class().List(ctx, nil, repositories.ClassFilters{StudentID: &studentID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list classes: %w", err)
	}
	assignments, err := repo.Assignment().List(ctx, nil, repositories.AssignmentFilters{ClassIDs: classIDs(classes)})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return classes, assignments, nil
}

type studentProgress struct {
	pending   int
	submitted int
	grades    []float64
}

func progressOf(assignments []*models.Assignment, studentID string, now time.Time) studentProgress {
	var p studentProgress
	for _, a := range assignments {
		sub := a.SubmissionBy(studentID)
		if sub == nil {
			if a.IsPending(now) {
				p.pending++
			}
			continue
		}
		p.submitted++
		if sub.Grade != nil {
			p.grades = append(p.grades, *sub.Grade)
		}
	}
	return p
}

// formatAverageGrade renders the rounded mean as "85%", or "N/A" without grades
func formatAverageGrade(grades []float64) string {
	if len(grades) == 0 {
		return "N/A"
	}
	total := 0.0
	for _, g := range grades {
		total += g
	}
	return fmt.Sprintf("%d%%", int(math.Round(total/float64(len(grades)))))
}
