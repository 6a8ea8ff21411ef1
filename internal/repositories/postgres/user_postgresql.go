package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/cache"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

// NewUserPostgreSQL stores users in the users table. Lookups by id go through the user cache.
func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &userRepository{db: db, cache: cacheManager}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return handleDBError(err, "create user")
	}
	cache.InvalidateStatsCache(ctx, r.cache)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	// the cached copy has no password hash; login reads through GetByLogin
	err := r.cache.User.CacheOrExecute(ctx, cache.UserKey(id), &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		var fresh models.User
		if err := r.db.WithContext(ctx).First(&fresh, "id = ?", id).Error; err != nil {
			return nil, handleDBError(err, "get user by id")
		}
		return &fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	users := make([]*models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, handleDBError(err, "get users by ids")
	}
	return users, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", login, login).
		First(&user).Error; err != nil {
		return nil, handleDBError(err, "get user by login")
	}
	return &user, nil
}

func (r *userRepository) GetByStudentID(ctx context.Context, studentID string, role models.UserRole) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND role = ?", studentID, role).
		Order("created_at ASC").
		First(&user).Error; err != nil {
		return nil, handleDBError(err, "get user by student id")
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", username, email).
		Count(&count).Error; err != nil {
		return false, handleDBError(err, "check user existence")
	}
	return count > 0, nil
}

func (r *userRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	users := make([]*models.User, 0)

	query := r.db.WithContext(ctx).Model(&models.User{})
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}

	if err := query.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, handleDBError(err, "list users")
	}
	return users, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at)
	if err := requireRows(result, "update last login"); err != nil {
		return err
	}
	cache.SafeDelete(ctx, r.cache.User, cache.UserKey(id))
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if err := requireRows(r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id), "delete user"); err != nil {
		return err
	}
	cache.InvalidateUserCache(ctx, r.cache, id)
	return nil
}
