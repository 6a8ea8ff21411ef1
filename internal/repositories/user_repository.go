package repositories

import (
	"context"
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Role     *models.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
}

// UserRepository is the identity store. It is not transactional because it may live outside the database.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetByStudentID(ctx context.Context, studentID string, role models.UserRole) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// SessionRepository stores opaque login sessions keyed by token.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}
