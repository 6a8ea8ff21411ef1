package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
)

// DashboardRepository serves the aggregate counters of the admin dashboard.
type DashboardRepository interface {
	CountUsers(ctx context.Context, tx *gorm.DB) (int64, error)
	CountActiveUsersByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error)
	CountClasses(ctx context.Context, tx *gorm.DB) (int64, error)
}
