package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

// SampleStudentID links the sample student and parent accounts
const SampleStudentID = "STU2024001"

type sampleUser struct {
	username  string
	email     string
	password  string
	fullName  string
	role      models.UserRole
	studentID *string
}

var sampleUsers = []sampleUser{
	{username: "admin", email: "admin@educonnect.local", password: "admin123", fullName: "System Administrator", role: models.RoleAdmin},
	{username: "teacher1", email: "teacher1@educonnect.local", password: "teacher123", fullName: "Ama Mensah", role: models.RoleTeacher},
	{username: "student1", email: "student1@educonnect.local", password: "student123", fullName: "Kofi Asante", role: models.RoleStudent, studentID: ptr(SampleStudentID)},
	{username: "parent1", email: "parent1@educonnect.local", password: "parent123", fullName: "Akosua Asante", role: models.RoleParent, studentID: ptr(SampleStudentID)},
}

type seedService struct {
	repo   repositories.Repository
	logger *slog.Logger
	now    Clock
}

func NewSeedService(repo repositories.Repository, logger *slog.Logger, now Clock) SeedService {
	return &seedService{
		repo:   repo,
		logger: logger,
		now:    now,
	}
}

// SeedSampleData creates the demo accounts and one class worth of content.
// Each user is created independently; a failure is recorded and the rest continue.
func (s *seedService) SeedSampleData(ctx context.Context) (*SeedResult, error) {
	result := &SeedResult{Created: []string{}, Failed: []string{}}
	seeded := make(map[string]*models.User, len(sampleUsers))

	for _, su := range sampleUsers {
		user, created, err := s.seedUser(ctx, su)
		if err != nil {
			s.logger.Error("Failed to seed user", "username", su.username, "error", err)
			result.Failed = append(result.Failed, su.username)
			continue
		}
		if created {
			result.Created = append(result.Created, su.username)
		}
		seeded[su.username] = user
	}

	teacher, student := seeded["teacher1"], seeded["student1"]
	if teacher == nil || student == nil {
		s.logger.Warn("Skipping sample content, sample teacher or student missing")
		return result, nil
	}

	classes, err := s.repo.Dashboard().CountClasses(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to count classes: %w", err)
	}
	if classes > 0 {
		s.logger.Info("Sample content already present", "classes", classes)
		return result, nil
	}

	if err := s.seedContent(ctx, seeded["admin"], teacher, student); err != nil {
		result.Failed = append(result.Failed, "content")
		s.logger.Error("Failed to seed sample content", "error", err)
		return result, nil
	}
	result.Created = append(result.Created, "content")

	s.logger.Info("Sample data seeded", "created", len(result.Created), "failed", len(result.Failed))
	return result, nil
}

// seedUser returns the existing account when one already holds the username
func (s *seedService) seedUser(ctx context.Context, su sampleUser) (*models.User, bool, error) {
	existing, err := s.repo.User().GetByLogin(ctx, su.username)
	if err == nil {
		return existing, false, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, false, err
	}

	user, err := newUser(ctx, s.repo.User(), &RegisterRequest{
		Username:  su.username,
		Email:     su.email,
		Password:  su.password,
		Role:      su.role,
		FullName:  su.fullName,
		StudentID: su.studentID,
	}, true)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *seedService) seedContent(ctx context.Context, admin, teacher, student *models.User) error {
	now := s.now()

	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		class := &models.Class{
			Name:      "Mathematics 101",
			Subject:   "Mathematics",
			TeacherID: teacher.ID,
		}
		if err := tx.Class().Create(ctx, nil, class); err != nil {
			return fmt.Errorf("failed to create class: %w", err)
		}
		if err := tx.Class().AddStudent(ctx, nil, class.ID, student.ID); err != nil {
			return fmt.Errorf("failed to enroll student: %w", err)
		}

		assignment := &models.Assignment{
			Title:       "Algebra Basics",
			Description: "Solve the exercises in chapter 1 and show your working.",
			DueDate:     now.Add(7 * 24 * time.Hour),
			ClassID:     class.ID,
			TeacherID:   teacher.ID,
			MaxScore:    models.DefaultMaxScore,
		}
		if err := tx.Assignment().Create(ctx, nil, assignment); err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		author := teacher
		if admin != nil {
			author = admin
		}
		announcement := &models.Announcement{
			Title:       "Welcome to EduConnect",
			Content:     "The new term starts next week. Check your dashboard for classes and assignments.",
			AuthorID:    author.ID,
			TargetRoles: []models.UserRole{},
			IsActive:    true,
		}
		if err := tx.Announcement().Create(ctx, nil, announcement); err != nil {
			return fmt.Errorf("failed to create announcement: %w", err)
		}

		schedule := &models.Schedule{
			Title:        "Mathematics 101 review session",
			Date:         time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 3),
			StartTime:    "10:00",
			EndTime:      ptr("11:00"),
			CreatedBy:    teacher.ID,
			Participants: []string{student.ID},
		}
		if err := tx.Schedule().Create(ctx, nil, schedule); err != nil {
			return fmt.Errorf("failed to create schedule: %w", err)
		}
		return nil
	})
}
