package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/cache"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories/casdoor"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories/session"
)

// User providers
const (
	UserProviderDatabase = "session"
	UserProviderCasdoor  = "casdoor"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager
	externalUser bool

	// Repository instances
	user         repositories.UserRepository
	session      repositories.SessionRepository
	class        repositories.ClassRepository
	assignment   repositories.AssignmentRepository
	announcement repositories.AnnouncementRepository
	schedule     repositories.ScheduleRepository
	dashboard    repositories.DashboardRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	CasdoorConfig casdoor.CasdoorConfig
	UserProvider  string
	SessionTTL    time.Duration
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	// Users come from Casdoor or from the users table
	if config.UserProvider == UserProviderCasdoor {
		repo.user = casdoor.NewUserCasdoor(config.CasdoorConfig, config.RedisClient)
		repo.externalUser = true
	} else {
		repo.user = NewUserPostgreSQL(config.DB, cacheManager)
	}

	// Sessions need redis; without it they live in the sessions table
	if config.RedisClient != nil {
		repo.session = session.NewSessionRedis(config.RedisClient, config.SessionTTL)
	} else {
		repo.session = NewSessionPostgreSQL(config.DB)
	}

	repo.bind(config.DB)
	return repo
}

// bind builds the transactional sub-repositories on db
func (r *PostgreSQLRepository) bind(db *gorm.DB) {
	r.class = NewClassPostgreSQL(db, r.cacheManager)
	r.assignment = NewAssignmentPostgreSQL(db)
	r.announcement = NewAnnouncementPostgreSQL(db)
	r.schedule = NewSchedulePostgreSQL(db)

	var externalUsers repositories.UserRepository
	if r.externalUser {
		externalUsers = r.user
	}
	r.dashboard = NewDashboardRepository(db, r.cacheManager, externalUsers)
}

func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

func (r *PostgreSQLRepository) Session() repositories.SessionRepository {
	return r.session
}

func (r *PostgreSQLRepository) Class() repositories.ClassRepository {
	return r.class
}

func (r *PostgreSQLRepository) Assignment() repositories.AssignmentRepository {
	return r.assignment
}

func (r *PostgreSQLRepository) Announcement() repositories.AnnouncementRepository {
	return r.announcement
}

func (r *PostgreSQLRepository) Schedule() repositories.ScheduleRepository {
	return r.schedule
}

func (r *PostgreSQLRepository) Dashboard() repositories.DashboardRepository {
	return r.dashboard
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
			externalUser: r.externalUser,
			// Users and sessions are not part of the transaction
			user:    r.user,
			session: r.session,
		}
		txRepo.bind(tx)
		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize checks the connections, migrates the schema and builds the repositories
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	if err := AutoMigrate(rm.config.DB.WithContext(ctx)); err != nil {
		return err
	}

	rm.repo = NewPostgreSQLRepository(rm.config)

	return nil
}

// AutoMigrate creates or updates every table of the service
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&sessionRecord{},
		&models.Class{},
		&models.ClassEnrollment{},
		&models.Assignment{},
		&models.Submission{},
		&models.Announcement{},
		&models.Schedule{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
