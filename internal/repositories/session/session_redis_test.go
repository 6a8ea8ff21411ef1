package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

func TestSessionRedis_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := NewSessionRedis(client, time.Hour)
	ctx := context.Background()

	sess := &models.Session{
		Token:     "tok-1",
		UserID:    "u1",
		Username:  "student1",
		Role:      models.RoleStudent,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if ttl := mr.TTL("session:tok-1"); ttl <= 0 || ttl > time.Hour {
		t.Errorf("session ttl = %v, want within (0, 1h]", ttl)
	}

	got, err := repo.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != "u1" || got.Role != models.RoleStudent {
		t.Errorf("Get() = %+v", got)
	}

	if err := repo.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.Get(ctx, "tok-1"); !repositories.IsNotFoundError(err) {
		t.Errorf("Get() after delete error = %v, want not found", err)
	}
}

func TestSessionRedis_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := NewSessionRedis(client, time.Minute)
	ctx := context.Background()

	if err := repo.Create(ctx, &models.Session{Token: "tok-2", UserID: "u2", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := repo.Get(ctx, "tok-2"); !repositories.IsNotFoundError(err) {
		t.Errorf("Get() after expiry error = %v, want not found", err)
	}
}

func TestSessionRedis_CreateRejectsTokenInUse(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := NewSessionRedis(client, time.Hour)
	ctx := context.Background()

	if err := repo.Create(ctx, &models.Session{Token: "tok-3", UserID: "u1", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantDup bool
	}{
		{name: "token in use", token: "tok-3", wantDup: true},
		{name: "fresh token", token: "tok-4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, &models.Session{Token: tt.token, UserID: "u2", CreatedAt: time.Now()})
			if repositories.IsDuplicateError(err) != tt.wantDup {
				t.Fatalf("Create() error = %v, want duplicate %v", err, tt.wantDup)
			}
		})
	}

	got, err := repo.Get(ctx, "tok-3")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.UserID != "u1" {
		t.Errorf("session owner = %s, want u1 kept", got.UserID)
	}
}
