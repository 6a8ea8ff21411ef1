package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/events"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/storage"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	SessionTTL time.Duration

	// Clock overrides time.Now, mainly for tests
	Clock Clock
}

// ServiceDeps are the collaborators shared by every service
type ServiceDeps struct {
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator
	Publisher events.EventPublisher
	// Files may be nil, in which case file submissions are rejected
	Files storage.FileStore
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	deps   ServiceDeps
	config ServiceManagerConfig

	// Service instances
	classService        ClassService
	assignmentService   AssignmentService
	dashboardService    DashboardService
	gradeService        GradeService
	authService         AuthService
	userService         UserService
	announcementService AnnouncementService
	scheduleService     ScheduleService
	seedService         SeedService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps ServiceDeps, config ServiceManagerConfig) ServiceManager {
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = DefaultSessionTTL
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &serviceManager{
		deps:   deps,
		config: config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.deps.Repo == nil {
		return fmt.Errorf("service manager requires a repository")
	}
	if sm.deps.Validator == nil {
		sm.deps.Validator = validator.New()
	}

	sm.deps.Logger.Info("Initializing service manager")

	repo, logger, v, pub, now := sm.deps.Repo, sm.deps.Logger, sm.deps.Validator, sm.deps.Publisher, sm.config.Clock

	sm.classService = NewClassService(repo, logger, v, pub)
	sm.assignmentService = NewAssignmentService(repo, logger, v, pub, sm.deps.Files, now)
	sm.dashboardService = NewDashboardService(repo, logger, now)
	sm.gradeService = NewGradeService(repo, logger)
	sm.authService = NewAuthService(repo, logger, v, pub, sm.config.SessionTTL, now)
	sm.userService = NewUserService(repo, logger, v, pub)
	sm.announcementService = NewAnnouncementService(repo, logger, v, pub)
	sm.scheduleService = NewScheduleService(repo, logger, v)
	sm.seedService = NewSeedService(repo, logger, now)

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully", "uploads_enabled", sm.deps.Files != nil)

	return nil
}

// Service getters

func (sm *serviceManager) Class() ClassService {
	sm.mustBeInitialized()
	return sm.classService
}

func (sm *serviceManager) Assignment() AssignmentService {
	sm.mustBeInitialized()
	return sm.assignmentService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mustBeInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) Grade() GradeService {
	sm.mustBeInitialized()
	return sm.gradeService
}

func (sm *serviceManager) Auth() AuthService {
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) Announcement() AnnouncementService {
	sm.mustBeInitialized()
	return sm.announcementService
}

func (sm *serviceManager) Schedule() ScheduleService {
	sm.mustBeInitialized()
	return sm.scheduleService
}

func (sm *serviceManager) Seed() SeedService {
	sm.mustBeInitialized()
	return sm.seedService
}

func (sm *serviceManager) mustBeInitialized() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")

	return nil
}

// IsInitialized returns whether the service manager has been initialized
func (sm *serviceManager) IsInitialized() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.initialized
}
