package casdoor

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/cache"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

// Casdoor user properties carrying school data
const (
	propertyStudentID = "student_id"
	propertyRole      = "role"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// NewClient builds a Casdoor SDK client from the config
func NewClient(config CasdoorConfig) *casdoorsdk.Client {
	return casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)
}

type UserCasdoor struct {
	client *casdoorsdk.Client
	cache  *cache.CacheHelper
	config CasdoorConfig
}

func NewUserCasdoor(config CasdoorConfig, redisClient *redis.Client) repositories.UserRepository {
	return &UserCasdoor{
		client: NewClient(config),
		cache:  cache.NewCacheHelper(redisClient, cache.UserCacheConfig.Prefix),
		config: config,
	}
}

// ===== CACHE METHODS =====

func (u *UserCasdoor) getUserFromCache(ctx context.Context, key string) *models.User {
	var user models.User
	if err := u.cache.Get(ctx, key, &user); err != nil {
		return nil
	}
	return &user
}

func (u *UserCasdoor) setUserCache(ctx context.Context, user *models.User) {
	if err := u.cache.Set(ctx, cache.UserKey(user.ID), user, cache.UserCacheConfig.TTL); err != nil {
		return
	}
	_ = u.cache.Set(ctx, emailKey(user.Email), user, cache.UserCacheConfig.TTL)
}

func (u *UserCasdoor) dropUserCache(ctx context.Context, user *models.User) {
	cache.SafeDelete(ctx, u.cache, cache.UserKey(user.ID), emailKey(user.Email))
}

func emailKey(email string) string {
	return fmt.Sprintf("email:%s", strings.ToLower(email))
}

// ===== CONVERSION METHODS =====

// convertCasdoorUserToModel converts Casdoor user to internal model
func (u *UserCasdoor) convertCasdoorUserToModel(casdoorUser *casdoorsdk.User) *models.User {
	if casdoorUser == nil {
		return nil
	}

	var createdAt, updatedAt time.Time
	if casdoorUser.CreatedTime != "" {
		createdAt, _ = time.Parse(time.RFC3339, casdoorUser.CreatedTime)
	}
	if casdoorUser.UpdatedTime != "" {
		updatedAt, _ = time.Parse(time.RFC3339, casdoorUser.UpdatedTime)
	}

	var lastLoginAt *time.Time
	if casdoorUser.LastSigninTime != "" {
		if parsed, err := time.Parse(time.RFC3339, casdoorUser.LastSigninTime); err == nil {
			lastLoginAt = &parsed
		}
	}

	role := u.convertCasdoorRolesToModel(casdoorUser)
	var studentID *string
	if id := casdoorUser.Properties[propertyStudentID]; id != "" && (role == models.RoleStudent || role == models.RoleParent) {
		studentID = &id
	}

	return &models.User{
		ID:          casdoorUser.Id,
		Username:    casdoorUser.Name,
		Email:       casdoorUser.Email,
		FullName:    casdoorUser.DisplayName,
		Role:        role,
		StudentID:   studentID,
		IsActive:    !casdoorUser.IsForbidden && !casdoorUser.IsDeleted,
		LastLoginAt: lastLoginAt,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

func (u *UserCasdoor) convertModelToCasdoorUser(user *models.User) *casdoorsdk.User {
	properties := map[string]string{propertyRole: string(user.Role)}
	if id := user.LinkedStudentID(); id != "" {
		properties[propertyStudentID] = id
	}

	return &casdoorsdk.User{
		Owner:       u.config.OrganizationName,
		Name:        user.Username,
		Id:          user.ID,
		Type:        string(user.Role),
		DisplayName: user.FullName,
		Email:       user.Email,
		IsAdmin:     user.Role == models.RoleAdmin,
		IsForbidden: !user.IsActive,
		CreatedTime: user.CreatedAt.Format(time.RFC3339),
		Properties:  properties,
	}
}

func (u *UserCasdoor) convertCasdoorRolesToModel(casdoorUser *casdoorsdk.User) models.UserRole {
	var roles []models.UserRole
	isExist := make(map[models.UserRole]bool)
	for _, casdoorRole := range casdoorUser.Roles {
		if casdoorRole == nil {
			continue
		}
		mappedRole := u.mapSingleCasdoorRoleToUserRole(casdoorRole.Name)
		if !isExist[mappedRole] {
			roles = append(roles, mappedRole)
			isExist[mappedRole] = true
		}
	}

	// admin wins over any other role
	if slices.Contains(roles, models.RoleAdmin) || casdoorUser.IsAdmin {
		return models.RoleAdmin
	}

	if len(roles) > 0 {
		return roles[0]
	}
	if role := models.UserRole(casdoorUser.Properties[propertyRole]); role.IsValid() {
		return role
	}
	return u.mapSingleCasdoorRoleToUserRole(casdoorUser.Type)
}

func (u *UserCasdoor) mapSingleCasdoorRoleToUserRole(casdoorType string) models.UserRole {
	switch strings.ToLower(casdoorType) {
	case "teacher", "instructor", "educator":
		return models.RoleTeacher
	case "parent", "guardian":
		return models.RoleParent
	case "admin", "administrator":
		return models.RoleAdmin
	default:
		return models.RoleStudent
	}
}

// ===== WRITE OPERATIONS =====

func (u *UserCasdoor) Create(ctx context.Context, user *models.User) error {
	exists, err := u.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return repositories.ErrDuplicate
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	ok, err := u.client.AddUser(u.convertModelToCasdoorUser(user))
	if err != nil {
		return fmt.Errorf("failed to add user to Casdoor: %w", err)
	}
	if !ok {
		return fmt.Errorf("casdoor rejected user %s", user.Username)
	}

	return nil
}

func (u *UserCasdoor) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return repositories.ErrNotFound
	}

	casdoorUser.LastSigninTime = at.Format(time.RFC3339)
	if _, err := u.client.UpdateUser(casdoorUser); err != nil {
		return fmt.Errorf("failed to update user in Casdoor: %w", err)
	}
	cache.SafeDelete(ctx, u.cache, cache.UserKey(id))
	return nil
}

func (u *UserCasdoor) Delete(ctx context.Context, id string) error {
	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return repositories.ErrNotFound
	}

	if _, err := u.client.DeleteUser(casdoorUser); err != nil {
		return fmt.Errorf("failed to delete user from Casdoor: %w", err)
	}
	u.dropUserCache(ctx, u.convertCasdoorUserToModel(casdoorUser))
	return nil
}

// ===== BASIC READ OPERATIONS =====

func (u *UserCasdoor) GetByID(ctx context.Context, id string) (*models.User, error) {
	if cachedUser := u.getUserFromCache(ctx, cache.UserKey(id)); cachedUser != nil {
		return cachedUser, nil
	}

	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}

	user := u.convertCasdoorUserToModel(casdoorUser)
	u.setUserCache(ctx, user)
	return user, nil
}

func (u *UserCasdoor) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		user, err := u.GetByID(ctx, id)
		if err == nil && user != nil {
			users = append(users, user)
		}
		// Continue even if individual user fetch fails
	}
	return users, nil
}

// GetByLogin matches the Casdoor user name first, then the email
func (u *UserCasdoor) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	casdoorUser, err := u.client.GetUser(login)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil {
		if cachedUser := u.getUserFromCache(ctx, emailKey(login)); cachedUser != nil {
			return cachedUser, nil
		}
		casdoorUser, err = u.client.GetUserByEmail(login)
		if err != nil {
			return nil, fmt.Errorf("failed to get user by email from Casdoor: %w", err)
		}
	}
	if casdoorUser == nil {
		return nil, fmt.Errorf("user %s: %w", login, repositories.ErrNotFound)
	}

	user := u.convertCasdoorUserToModel(casdoorUser)
	u.setUserCache(ctx, user)
	return user, nil
}

func (u *UserCasdoor) GetByStudentID(ctx context.Context, studentID string, role models.UserRole) (*models.User, error) {
	users, err := u.List(ctx, repositories.UserFilters{Role: &role})
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if user.LinkedStudentID() == studentID {
			return user, nil
		}
	}
	return nil, fmt.Errorf("%s with student id %s: %w", role, studentID, repositories.ErrNotFound)
}

func (u *UserCasdoor) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	byName, err := u.client.GetUser(username)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	if byName != nil {
		return true, nil
	}

	byEmail, err := u.client.GetUserByEmail(email)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence by email: %w", err)
	}
	return byEmail != nil, nil
}

// ===== LIST OPERATIONS =====

// List returns the organization's users ordered by creation time
func (u *UserCasdoor) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	casdoorUsers, err := u.client.GetUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to get users from Casdoor: %w", err)
	}

	users := make([]*models.User, 0, len(casdoorUsers))
	for _, casdoorUser := range casdoorUsers {
		user := u.convertCasdoorUserToModel(casdoorUser)
		if user == nil {
			continue
		}
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		if filters.IsActive != nil && user.IsActive != *filters.IsActive {
			continue
		}
		users = append(users, user)
	}

	slices.SortStableFunc(users, func(a, b *models.User) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return users, nil
}
