package postgres

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

// ===== ANNOUNCEMENTS =====

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementPostgreSQL(db *gorm.DB) repositories.AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Omit("Author").Create(announcement).Error; err != nil {
		return handleDBError(err, "create announcement")
	}
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error) {
	db := getDB(r.db, tx)
	var announcement models.Announcement

	if err := db.WithContext(ctx).Preload("Author").First(&announcement, id).Error; err != nil {
		return nil, handleDBError(err, "get announcement by id")
	}
	return &announcement, nil
}

func (r *announcementRepository) ListVisible(ctx context.Context, tx *gorm.DB, filters repositories.AnnouncementFilters) ([]*models.Announcement, error) {
	db := getDB(r.db, tx)
	announcements := make([]*models.Announcement, 0)

	roleJSON, err := json.Marshal([]models.UserRole{filters.Role})
	if err != nil {
		return nil, handleDBError(err, "encode role filter")
	}

	query := db.WithContext(ctx).
		Preload("Author").
		Where("is_active = ?", true)

	visible := "(COALESCE(jsonb_array_length(target_roles), 0) = 0 OR target_roles @> ?::jsonb)"
	if filters.IncludeAuthorID != "" {
		query = query.Where(visible+" OR author_id = ?", string(roleJSON), filters.IncludeAuthorID)
	} else {
		query = query.Where(visible, string(roleJSON))
	}

	query = query.Order("created_at DESC, id DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	if err := query.Find(&announcements).Error; err != nil {
		return nil, handleDBError(err, "list announcements")
	}
	return announcements, nil
}

// ===== SCHEDULES =====

type scheduleRepository struct {
	db *gorm.DB
}

func NewSchedulePostgreSQL(db *gorm.DB) repositories.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Omit("Creator").Create(schedule).Error; err != nil {
		return handleDBError(err, "create schedule")
	}
	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Schedule, error) {
	db := getDB(r.db, tx)
	var schedule models.Schedule

	if err := db.WithContext(ctx).Preload("Creator").First(&schedule, id).Error; err != nil {
		return nil, handleDBError(err, "get schedule by id")
	}
	return &schedule, nil
}

func (r *scheduleRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ScheduleFilters) ([]*models.Schedule, error) {
	db := getDB(r.db, tx)
	schedules := make([]*models.Schedule, 0)

	query := db.WithContext(ctx).Preload("Creator")
	if filters.InvolvingUserID != "" {
		participant, err := json.Marshal([]string{filters.InvolvingUserID})
		if err != nil {
			return nil, handleDBError(err, "encode participant filter")
		}
		query = query.Where("created_by = ? OR participants @> ?::jsonb", filters.InvolvingUserID, string(participant))
	}

	if err := query.Order("date ASC, start_time ASC, id ASC").Find(&schedules).Error; err != nil {
		return nil, handleDBError(err, "list schedules")
	}
	return schedules, nil
}
