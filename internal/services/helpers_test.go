package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/events"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories/memory"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/storage"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

// testEnv wires every service onto an in-memory repository with a pinned clock
type testEnv struct {
	ctx       context.Context
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	services  ServiceManager
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithFiles(t, nil)
}

func newTestEnvWithFiles(t *testing.T, files storage.FileStore) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		ctx:       context.Background(),
		repo:      memory.NewRepository(memory.NewDB()),
		publisher: events.NewMockEventPublisher(logger),
		now:       time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC),
	}

	env.services = NewServiceManager(ServiceDeps{
		Repo:      env.repo,
		Logger:    logger,
		Validator: validator.New(),
		Publisher: env.publisher,
		Files:     files,
	}, ServiceManagerConfig{
		Clock: func() time.Time { return env.now },
	})
	if err := env.services.Initialize(env.ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return env
}

func (e *testEnv) createUser(t *testing.T, username string, role models.UserRole, studentID string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@school.test",
		Role:     role,
		IsActive: true,
	}
	if studentID != "" {
		user.StudentID = &studentID
	}
	if err := e.repo.User().Create(e.ctx, user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) createClass(t *testing.T, admin, teacher *models.User) *models.Class {
	t.Helper()

	class, err := e.services.Class().CreateClass(e.ctx, admin, &CreateClassRequest{Name: "Mathematics 101", Subject: "Mathematics", TeacherID: teacher.ID})
	if err != nil {
		t.Fatalf("CreateClass() error = %v", err)
	}
	return class
}

func (e *testEnv) createAssignment(t *testing.T, teacher *models.User, classID uint, due time.Time) *models.Assignment {
	t.Helper()

	assignment, err := e.services.Assignment().CreateAssignment(e.ctx, teacher, &CreateAssignmentRequest{
		Title:       "Quadratic equations",
		Description: "Exercises 1 to 10",
		DueDate:     due,
		ClassID:     classID,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() error = %v", err)
	}
	return assignment
}

func (e *testEnv) submit(t *testing.T, student *models.User, assignmentID uint, description string) *models.Submission {
	t.Helper()

	sub, err := e.services.Assignment().Submit(e.ctx, student, assignmentID, SubmitInput{Description: &description})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	return sub
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func stringPtr(v string) *string  { return &v }
