package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories/casdoor"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/services"
)

// CasdoorTokenResolver authenticates Casdoor-issued JWTs
type CasdoorTokenResolver struct {
	client   *casdoorsdk.Client
	userRepo repositories.UserRepository
}

// NewCasdoorTokenResolver creates a resolver validating tokens against the Casdoor certificate
func NewCasdoorTokenResolver(cfg casdoor.CasdoorConfig, userRepo repositories.UserRepository) *CasdoorTokenResolver {
	return &CasdoorTokenResolver{
		client:   casdoor.NewClient(cfg),
		userRepo: userRepo,
	}
}

func (r *CasdoorTokenResolver) ResolveActor(ctx context.Context, token string) (*models.User, error) {
	claims, err := r.client.ParseJwtToken(token)
	if err != nil {
		return nil, services.NewAuthError(fmt.Sprintf("invalid token: %v", err))
	}

	user, err := r.extractUserFromClaims(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, services.NewAuthError("account is deactivated")
	}
	return user, nil
}

// extractUserFromClaims loads the user behind the token, falling back to the claims themselves
func (r *CasdoorTokenResolver) extractUserFromClaims(ctx context.Context, claims *casdoorsdk.Claims) (*models.User, error) {
	userID := claims.Id
	if userID == "" {
		return nil, services.NewAuthError("invalid user ID in token")
	}

	user, err := r.userRepo.GetByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return createUserFromClaims(claims), nil
}

func createUserFromClaims(claims *casdoorsdk.Claims) *models.User {
	user := &models.User{
		ID:       claims.Id,
		Username: claims.User.Name,
		Email:    claims.User.Email,
		FullName: claims.User.DisplayName,
		Role:     mapCasdoorRoleToUserRole(claims.User.Type),
		IsActive: !claims.User.IsForbidden,
	}
	if claims.User.IsAdmin {
		user.Role = models.RoleAdmin
	}
	return user
}

// mapCasdoorRoleToUserRole maps Casdoor user type to internal role
func mapCasdoorRoleToUserRole(casdoorType string) models.UserRole {
	switch strings.ToLower(casdoorType) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "teacher", "instructor", "educator":
		return models.RoleTeacher
	case "parent", "guardian":
		return models.RoleParent
	default:
		return models.RoleStudent
	}
}
