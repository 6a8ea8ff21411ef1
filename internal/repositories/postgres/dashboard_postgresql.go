package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/cache"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

type dashboardRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager

	// set when users live outside the database
	users repositories.UserRepository
}

func NewDashboardRepository(db *gorm.DB, cacheManager *cache.CacheManager, externalUsers repositories.UserRepository) repositories.DashboardRepository {
	return &dashboardRepository{db: db, cache: cacheManager, users: externalUsers}
}

// ===== DASHBOARD STATS =====

func (r *dashboardRepository) CountUsers(ctx context.Context, tx *gorm.DB) (int64, error) {
	return r.cachedCount(ctx, "users", func() (int64, error) {
		if r.users != nil {
			users, err := r.users.List(ctx, repositories.UserFilters{})
			if err != nil {
				return 0, err
			}
			return int64(len(users)), nil
		}

		var count int64
		if err := getDB(r.db, tx).WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to get total users: %w", err)
		}
		return count, nil
	})
}

func (r *dashboardRepository) CountActiveUsersByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error) {
	return r.cachedCount(ctx, "active:"+string(role), func() (int64, error) {
		if r.users != nil {
			active := true
			users, err := r.users.List(ctx, repositories.UserFilters{Role: &role, IsActive: &active})
			if err != nil {
				return 0, err
			}
			return int64(len(users)), nil
		}

		var count int64
		if err := getDB(r.db, tx).WithContext(ctx).
			Model(&models.User{}).
			Where("role = ? AND is_active = ?", role, true).
			Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to get active %s count: %w", role, err)
		}
		return count, nil
	})
}

func (r *dashboardRepository) CountClasses(ctx context.Context, tx *gorm.DB) (int64, error) {
	return r.cachedCount(ctx, "classes", func() (int64, error) {
		var count int64
		if err := getDB(r.db, tx).WithContext(ctx).Model(&models.Class{}).Count(&count).Error; err != nil {
			return 0, fmt.Errorf("failed to get total classes: %w", err)
		}
		return count, nil
	})
}

func (r *dashboardRepository) cachedCount(ctx context.Context, key string, count func() (int64, error)) (int64, error) {
	var result int64
	err := r.cache.Stats.CacheOrExecute(ctx, key, &result, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return count()
	})
	return result, err
}
