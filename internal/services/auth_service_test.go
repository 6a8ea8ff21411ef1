package services

import (
	"errors"
	"testing"
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	env.now = time.Now()
	auth := env.services.Auth()

	user, err := auth.Register(env.ctx, &RegisterRequest{
		Username:  "kofi",
		Email:     "Kofi@School.test",
		Password:  "secret1",
		Role:      models.RoleStudent,
		StudentID: stringPtr("STU7"),
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.PasswordHash == "secret1" || user.Email != "kofi@school.test" || user.LinkedStudentID() != "STU7" {
		t.Errorf("Register() = %+v", user)
	}

	_, err = auth.Register(env.ctx, &RegisterRequest{Username: "kofi", Email: "other@school.test", Password: "secret1", Role: models.RoleStudent})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate Register() error = %v, want conflict", err)
	}

	result, err := auth.Login(env.ctx, &LoginRequest{Username: "kofi@school.test", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" || result.User.LastLoginAt == nil {
		t.Errorf("Login() = %+v", result)
	}

	actor, err := auth.ResolveActor(env.ctx, result.Token)
	if err != nil || actor.ID != user.ID {
		t.Fatalf("ResolveActor() = %v, %v", actor, err)
	}

	if err := auth.Logout(env.ctx, result.Token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := auth.ResolveActor(env.ctx, result.Token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ResolveActor() after logout error = %v, want unauthorized", err)
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	env := newTestEnv(t)
	env.now = time.Now()
	auth := env.services.Auth()

	if _, err := auth.Register(env.ctx, &RegisterRequest{Username: "ama", Email: "ama@school.test", Password: "secret1", Role: models.RoleTeacher}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	student := models.RoleStudent

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{name: "unknown user", req: LoginRequest{Username: "nobody", Password: "secret1"}},
		{name: "wrong password", req: LoginRequest{Username: "ama", Password: "wrong"}},
		{name: "role mismatch", req: LoginRequest{Username: "ama", Password: "secret1", Role: &student}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := auth.Login(env.ctx, &tt.req); !errors.Is(err, ErrUnauthorized) {
				t.Errorf("Login() error = %v, want unauthorized", err)
			}
		})
	}

	if _, err := auth.ResolveActor(env.ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ResolveActor(\"\") error = %v, want unauthorized", err)
	}
	if err := auth.ForgotPassword(env.ctx, &ForgotPasswordRequest{Email: "ghost@school.test"}); err != nil {
		t.Errorf("ForgotPassword() error = %v, want acknowledgement", err)
	}
}
