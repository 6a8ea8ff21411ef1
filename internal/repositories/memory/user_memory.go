package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repositories.UserRepository {
	return &userRepository{db: db}
}

// query returns users in creation order. Caller holds the lock.
func (repo *userRepository) query() []*models.User {
	users := make([]*models.User, 0, len(repo.db.userOrder))
	for _, id := range repo.db.userOrder {
		if u, ok := repo.db.users[id]; ok {
			users = append(users, u)
		}
	}
	return users
}

func (repo *userRepository) Create(ctx context.Context, user *models.User) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.query() {
		if strings.EqualFold(existing.Username, user.Username) || strings.EqualFold(existing.Email, user.Email) {
			return repositories.ErrDuplicate
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, exists := repo.db.users[user.ID]; exists {
		return repositories.ErrDuplicate
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	repo.db.users[user.ID] = copyUser(user)
	repo.db.userOrder = append(repo.db.userOrder, user.ID)
	return nil
}

func (repo *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if u, ok := repo.db.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, repositories.ErrNotFound
}

func (repo *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make([]*models.User, 0, len(ids))
	for _, u := range repo.query() {
		if slices.Contains(ids, u.ID) {
			users = append(users, copyUser(u))
		}
	}
	return users, nil
}

func (repo *userRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, u := range repo.query() {
		if strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login) {
			return copyUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (repo *userRepository) GetByStudentID(ctx context.Context, studentID string, role models.UserRole) (*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, u := range repo.query() {
		if u.Role == role && u.LinkedStudentID() == studentID {
			return copyUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (repo *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, u := range repo.query() {
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (repo *userRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	users := make([]*models.User, 0)
	for _, u := range repo.query() {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		if filters.IsActive != nil && u.IsActive != *filters.IsActive {
			continue
		}
		users = append(users, copyUser(u))
	}
	return users, nil
}

func (repo *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	u, ok := repo.db.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.LastLoginAt = &at
	u.UpdatedAt = at
	return nil
}

func (repo *userRepository) Delete(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(repo.db.users, id)
	repo.db.userOrder = slices.DeleteFunc(repo.db.userOrder, func(v string) bool { return v == id })
	return nil
}
