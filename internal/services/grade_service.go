package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/policy"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

const gradesSheet = "Grades"

type gradeService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewGradeService(repo repositories.Repository, logger *slog.Logger) GradeService {
	return &gradeService{
		repo:   repo,
		logger: logger,
	}
}

func (s *gradeService) GetGrades(ctx context.Context, actor *models.User) ([]GradeEntry, error) {
	if err := authorize(actor, policy.ActionReadGrades, policy.Target{SubjectID: actorID(actor)}, "grades", nil, "cannot read grades"); err != nil {
		return nil, err
	}

	var (
		grades []GradeEntry
		err    error
	)
	switch actor.Role {
	case models.RoleStudent:
		grades, err = s.studentGrades(ctx, actor, false)
	case models.RoleParent:
		var child *models.User
		child, err = linkedChild(ctx, s.repo.User(), actor)
		if err == nil && child != nil {
			grades, err = s.studentGrades(ctx, child, true)
		}
	case models.RoleTeacher:
		grades, err = s.submissionGrades(ctx, repositories.AssignmentFilters{TeacherID: &actor.ID}, false)
	case models.RoleAdmin:
		grades, err = s.submissionGrades(ctx, repositories.AssignmentFilters{}, true)
	default:
		err = fmt.Errorf("unknown role %q", actor.Role)
	}
	if err != nil {
		return nil, err
	}
	if grades == nil {
		grades = []GradeEntry{}
	}

	// most recent due date first
	sort.SliceStable(grades, func(i, j int) bool {
		return grades[i].DueDate.After(grades[j].DueDate)
	})
	return grades, nil
}

// studentGrades lists the student's own submissions across the classes they are enrolled in
func (s *gradeService) studentGrades(ctx context.Context, student *models.User, withStudentName bool) ([]GradeEntry, error) {
	_, assignments, err := loadStudentWork(ctx, s.repo, student.ID)
	if err != nil {
		return nil, err
	}

	grades := make([]GradeEntry, 0, len(assignments))
	for _, a := range assignments {
		sub := a.SubmissionBy(student.ID)
		if sub == nil {
			continue
		}
		entry := newGradeEntry(a, sub)
		entry.TeacherName = usernameOf(a.Teacher)
		if withStudentName {
			entry.StudentName = student.Username
		}
		grades = append(grades, entry)
	}
	return grades, nil
}

// submissionGrades lists every submission of the matching assignments
func (s *gradeService) submissionGrades(ctx context.Context, filters repositories.AssignmentFilters, withTeacherName bool) ([]GradeEntry, error) {
	assignments, err := s.repo.Assignment().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	grades := make([]GradeEntry, 0)
	for _, a := range assignments {
		for i := range a.Submissions {
			sub := &a.Submissions[i]
			if sub.Student == nil {
				continue
			}
			entry := newGradeEntry(a, sub)
			entry.StudentName = sub.Student.Username
			entry.StudentID = sub.Student.LinkedStudentID()
			if withTeacherName {
				entry.TeacherName = usernameOf(a.Teacher)
			}
			grades = append(grades, entry)
		}
	}
	return grades, nil
}

func newGradeEntry(a *models.Assignment, sub *models.Submission) GradeEntry {
	entry := GradeEntry{
		AssignmentID:    a.ID,
		AssignmentTitle: a.Title,
		DueDate:         a.DueDate,
		SubmittedAt:     sub.SubmittedAt,
		Grade:           sub.Grade,
		Score:           sub.Score,
		MaxScore:        a.MaxScore,
		Feedback:        sub.Feedback,
		Status:          EvaluateSubmissionStatus(sub, a.DueDate),
		GradedAt:        sub.GradedAt,
	}
	if a.Class != nil {
		entry.ClassName = a.Class.Name
	}
	return entry
}

func usernameOf(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

// ===== EXPORT =====

var gradeColumns = []interface{}{
	"Assignment", "Class", "Teacher", "Student", "Student ID", "Due Date",
	"Submitted At", "Status", "Grade", "Score", "Max Score", "Feedback", "Graded At",
}

// ExportGrades renders the actor's grades listing as an xlsx workbook
func (s *gradeService) ExportGrades(ctx context.Context, actor *models.User) ([]byte, error) {
	grades, err := s.GetGrades(ctx, actor)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", gradesSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(gradesSheet, "A1", &gradeColumns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(gradeColumns), 1)
	if err := f.SetCellStyle(gradesSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, g := range grades {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			g.AssignmentTitle,
			g.ClassName,
			g.TeacherName,
			g.StudentName,
			g.StudentID,
			g.DueDate.Format(time.DateTime),
			g.SubmittedAt.Format(time.DateTime),
			string(g.Status),
			optionalCell(g.Grade),
			optionalCell(g.Score),
			g.MaxScore,
			optionalCell(g.Feedback),
			optionalTimeCell(g.GradedAt),
		}
		if err := f.SetSheetRow(gradesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Grades exported", "user_id", actor.ID, "rows", len(grades))
	return buf.Bytes(), nil
}

func optionalCell[T any](v *T) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optionalTimeCell(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.Format(time.DateTime)
}
