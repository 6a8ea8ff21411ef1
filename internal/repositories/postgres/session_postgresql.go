package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

// sessionRecord is the table form of models.Session, used when no redis is configured
type sessionRecord struct {
	Token     string          `gorm:"primaryKey;size:64"`
	UserID    string          `gorm:"not null;index;size:255"`
	Username  string          `gorm:"not null;size:100"`
	Role      models.UserRole `gorm:"not null;size:20"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (sessionRecord) TableName() string {
	return "sessions"
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	record := sessionRecord{
		Token:     session.Token,
		UserID:    session.UserID,
		Username:  session.Username,
		Role:      session.Role,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return handleDBError(err, "create session")
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	var record sessionRecord
	if err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&record).Error; err != nil {
		return nil, handleDBError(err, "get session")
	}

	return &models.Session{
		Token:     record.Token,
		UserID:    record.UserID,
		Username:  record.Username,
		Role:      record.Role,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Delete(&sessionRecord{}, "token = ?", token).Error; err != nil {
		return handleDBError(err, "delete session")
	}
	return nil
}
