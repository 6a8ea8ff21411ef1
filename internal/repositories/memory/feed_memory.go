package memory

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

// ===== ANNOUNCEMENTS =====

type announcementRepository struct {
	db *DB
}

func NewAnnouncementRepository(db *DB) repositories.AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (repo *announcementRepository) Create(ctx context.Context, tx *gorm.DB, announcement *models.Announcement) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.announcementSeq++
	announcement.ID = repo.db.announcementSeq
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = time.Now()
	}
	stored := *announcement
	stored.Author = nil
	repo.db.announcements[stored.ID] = &stored
	return nil
}

func (repo *announcementRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	stored, ok := repo.db.announcements[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	a := *stored
	a.Author = copyUser(repo.db.users[stored.AuthorID])
	return &a, nil
}

func (repo *announcementRepository) ListVisible(ctx context.Context, tx *gorm.DB, filters repositories.AnnouncementFilters) ([]*models.Announcement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	result := make([]*models.Announcement, 0)
	for _, stored := range repo.db.announcements {
		if !stored.IsActive {
			continue
		}
		ownPost := filters.IncludeAuthorID != "" && stored.AuthorID == filters.IncludeAuthorID
		if !stored.VisibleTo(filters.Role) && !ownPost {
			continue
		}
		a := *stored
		a.Author = copyUser(repo.db.users[stored.AuthorID])
		result = append(result, &a)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}
	return result, nil
}

// ===== SCHEDULES =====

type scheduleRepository struct {
	db *DB
}

func NewScheduleRepository(db *DB) repositories.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) Create(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.scheduleSeq++
	schedule.ID = repo.db.scheduleSeq
	schedule.CreatedAt = time.Now()
	stored := *schedule
	stored.Creator = nil
	repo.db.schedules[stored.ID] = &stored
	return nil
}

func (repo *scheduleRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Schedule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	stored, ok := repo.db.schedules[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	s := *stored
	s.Creator = copyUser(repo.db.users[stored.CreatedBy])
	return &s, nil
}

func (repo *scheduleRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ScheduleFilters) ([]*models.Schedule, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	result := make([]*models.Schedule, 0)
	for _, stored := range repo.db.schedules {
		if filters.InvolvingUserID != "" && !stored.Involves(filters.InvolvingUserID) {
			continue
		}
		s := *stored
		s.Creator = copyUser(repo.db.users[stored.CreatedBy])
		result = append(result, &s)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// ===== SESSIONS =====

type sessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) repositories.SessionRepository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, taken := repo.db.sessions[session.Token]; taken {
		return repositories.ErrDuplicate
	}
	s := *session
	repo.db.sessions[s.Token] = &s
	return nil
}

func (repo *sessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	stored, ok := repo.db.sessions[token]
	if !ok || stored.Expired(time.Now()) {
		return nil, repositories.ErrNotFound
	}
	s := *stored
	return &s, nil
}

func (repo *sessionRepository) Delete(ctx context.Context, token string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.sessions, token)
	return nil
}

// ===== DASHBOARD COUNTERS =====

type dashboardRepository struct {
	db *DB
}

func NewDashboardRepository(db *DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (repo *dashboardRepository) CountUsers(ctx context.Context, tx *gorm.DB) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return int64(len(repo.db.users)), nil
}

func (repo *dashboardRepository) CountActiveUsersByRole(ctx context.Context, tx *gorm.DB, role models.UserRole) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var count int64
	for _, u := range repo.db.users {
		if u.Role == role && u.IsActive {
			count++
		}
	}
	return count, nil
}

func (repo *dashboardRepository) CountClasses(ctx context.Context, tx *gorm.DB) (int64, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return int64(len(repo.db.classes)), nil
}
