package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/cache"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

type classRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewClassPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ClassRepository {
	return &classRepository{db: db, cache: cacheManager}
}

func (r *classRepository) Create(ctx context.Context, tx *gorm.DB, class *models.Class) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Omit("Teacher").Create(class).Error; err != nil {
		return handleDBError(err, "create class")
	}
	cache.InvalidateStatsCache(ctx, r.cache)
	return nil
}

func (r *classRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error) {
	db := getDB(r.db, tx)
	var class models.Class

	if err := r.withRoster(db.WithContext(ctx)).First(&class, id).Error; err != nil {
		return nil, handleDBError(err, "get class by id")
	}
	return &class, nil
}

func (r *classRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ClassFilters) ([]*models.Class, error) {
	db := getDB(r.db, tx)
	classes := make([]*models.Class, 0)

	query := r.withRoster(db.WithContext(ctx).Model(&models.Class{}))
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.StudentID != nil {
		query = query.Where("id IN (?)",
			db.Model(&models.ClassEnrollment{}).Select("class_id").Where("student_id = ?", *filters.StudentID))
	}

	if err := query.Order("name ASC, id ASC").Find(&classes).Error; err != nil {
		return nil, handleDBError(err, "list classes")
	}
	return classes, nil
}

// ===== ROSTER OPERATIONS =====

func (r *classRepository) AddStudent(ctx context.Context, tx *gorm.DB, classID uint, studentID string) error {
	db := getDB(r.db, tx).WithContext(ctx)

	var exists int64
	if err := db.Model(&models.Class{}).Where("id = ?", classID).Count(&exists).Error; err != nil {
		return handleDBError(err, "check class")
	}
	if exists == 0 {
		return handleDBError(gorm.ErrRecordNotFound, "add student")
	}

	// the composite primary key rejects a second row for the same student
	enrollment := &models.ClassEnrollment{ClassID: classID, StudentID: studentID}
	if err := db.Omit("Student").Create(enrollment).Error; err != nil {
		return handleDBError(err, "add student")
	}
	return nil
}

func (r *classRepository) RemoveStudent(ctx context.Context, tx *gorm.DB, classID uint, studentID string) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Delete(&models.ClassEnrollment{}).Error; err != nil {
		return handleDBError(err, "remove student")
	}
	return nil
}

func (r *classRepository) IsEnrolled(ctx context.Context, tx *gorm.DB, classID uint, studentID string) (bool, error) {
	db := getDB(r.db, tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.ClassEnrollment{}).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check enrollment")
	}
	return count > 0, nil
}

func (r *classRepository) withRoster(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Teacher").
		Preload("Enrollments", func(db *gorm.DB) *gorm.DB {
			return db.Order("enrolled_at ASC")
		}).
		Preload("Enrollments.Student")
}
