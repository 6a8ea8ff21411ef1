package services

import (
	"errors"
	"testing"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/events"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

func TestUserService_CreateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", models.RoleAdmin, "")
	teacher := env.createUser(t, "t1", models.RoleTeacher, "")
	users := env.services.User()

	req := &RegisterRequest{Username: "yaw", Email: "yaw@school.test", Password: "secret1", Role: models.RoleTeacher, StudentID: stringPtr("STU9")}
	if _, err := users.CreateUser(env.ctx, teacher, req); !errors.Is(err, ErrForbidden) {
		t.Fatalf("CreateUser() by teacher error = %v, want forbidden", err)
	}

	created, err := users.CreateUser(env.ctx, admin, req)
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.StudentID != nil {
		t.Errorf("teacher kept student id %q", *created.StudentID)
	}

	if err := users.DeleteUser(env.ctx, admin, admin.ID); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("DeleteUser(self) error = %v, want validation error", err)
	}
	if err := users.DeleteUser(env.ctx, admin, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("DeleteUser(missing) error = %v, want not found", err)
	}
	if err := users.DeleteUser(env.ctx, admin, created.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	if got := len(env.publisher.EventsOfType(events.UserDeleted)); got != 1 {
		t.Errorf("user.deleted events = %d, want 1", got)
	}
}

func TestUserService_GetAdminData(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", models.RoleAdmin, "")
	teacher := env.createUser(t, "t1", models.RoleTeacher, "")
	student := env.createUser(t, "s1", models.RoleStudent, "STU1")
	env.createClass(t, admin, teacher)

	if _, err := env.services.User().GetAdminData(env.ctx, student); !errors.Is(err, ErrForbidden) {
		t.Fatalf("GetAdminData() by student error = %v, want forbidden", err)
	}

	data, err := env.services.User().GetAdminData(env.ctx, admin)
	if err != nil {
		t.Fatalf("GetAdminData() error = %v", err)
	}
	if len(data.Teachers) != 1 || len(data.Students) != 1 || len(data.Classes) != 1 {
		t.Errorf("GetAdminData() = %d teachers, %d students, %d classes", len(data.Teachers), len(data.Students), len(data.Classes))
	}
}
