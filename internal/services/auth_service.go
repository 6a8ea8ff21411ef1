package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/events"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/validator"
)

// DefaultSessionTTL is used when no session lifetime is configured
const DefaultSessionTTL = 7 * 24 * time.Hour

type authService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	events     eventEmitter
	sessionTTL time.Duration
	now        Clock
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, sessionTTL time.Duration, now Clock) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &authService{
		repo:       repo,
		logger:     logger,
		validator:  validator,
		events:     eventEmitter{publisher: publisher, logger: logger},
		sessionTTL: sessionTTL,
		now:        now,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if errs := s.validator.GetBusinessValidator().ValidateRegister(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := newUser(ctx, s.repo.User(), req, req.Role == models.RoleStudent || req.Role == models.RoleParent)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	s.events.emit(ctx, events.UserCreated, events.UserEventData{UserID: user.ID, Role: string(user.Role), ActorID: user.ID})
	return user, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByLogin(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewAuthError("invalid credentials")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn("Failed login attempt", "user_id", user.ID)
		return nil, NewAuthError("invalid credentials")
	}
	if !user.IsActive {
		return nil, NewAuthError("account is deactivated")
	}
	if req.Role != nil && *req.Role != user.Role {
		return nil, NewAuthError("invalid role for this account")
	}

	now := s.now()
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.repo.Session().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.repo.User().UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("Failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResult{Token: session.Token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.Session().Delete(ctx, token); err != nil && !repositories.IsNotFoundError(err) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ResolveActor maps a session token to its active user
func (s *authService) ResolveActor(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, NewAuthError("authentication required")
	}

	session, err := s.repo.Session().Get(ctx, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewAuthError("session expired or invalid")
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Expired(s.now()) {
		return nil, NewAuthError("session expired or invalid")
	}

	user, err := s.repo.User().GetByID(ctx, session.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewAuthError("user no longer exists")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, NewAuthError("account is deactivated")
	}
	return user, nil
}

// ForgotPassword acknowledges every well-formed request so account existence is not revealed
func (s *authService) ForgotPassword(ctx context.Context, req *ForgotPasswordRequest) error {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return errs
	}
	s.logger.Info("Password reset requested")
	return nil
}

// newUser hashes the password and stores a new active user. keepStudentID controls whether the external id is stored.
func newUser(ctx context.Context, users repositories.UserRepository, req *RegisterRequest, keepStudentID bool) (*models.User, error) {
	exists, err := users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, NewConflictError("user", "username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	if keepStudentID && req.StudentID != nil {
		user.StudentID = ptr(strings.TrimSpace(*req.StudentID))
	}

	if err := users.Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, NewConflictError("user", "username or email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
