// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flavorsnap/ip-backend/internal/config"
	"github.com/flavorsnap/ip-backend/internal/models"
	"github.com/flavorsnap/ip-backend/internal/storage"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

type AuthService struct {
	store storage.Store
	cfg   *config.Config
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Principal    *models.Principal `json:"principal"`
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	TokenType    string            `json:"token_type"`
	ExpiresIn    int               `json:"expires_in"` // in seconds
}

func NewAuthService(store storage.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store: store,
		cfg:   cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, found, err := s.store.Principals().GetByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if found {
		return nil, errors.New("principal with this email already exists")
	}
	if _, found, err := s.store.Principals().GetByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if found {
		return nil, errors.New("username already taken")
	}

	principal := &models.Principal{
		Username: req.Username,
		Email:    req.Email,
		Status:   models.PrincipalStatusActive,
	}
	if err := principal.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.store.Principals().Put(ctx, principal); err != nil {
		return nil, fmt.Errorf("failed to create principal: %w", err)
	}

	return s.issueTokens(principal)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	principal, found, err := s.store.Principals().GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("invalid email or password")
	}

	if principal.Status == models.PrincipalStatusSuspended {
		return nil, errors.New("account is suspended")
	}

	if err := principal.CheckPassword(req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	now := time.Now()
	principal.LastLoginAt = &now
	if err := s.store.Principals().Put(ctx, principal); err != nil {
		return nil, fmt.Errorf("failed to update principal: %w", err)
	}

	return s.issueTokens(principal)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	principalIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	principalID, err := uuid.Parse(principalIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid principal ID in token: %w", err)
	}

	principal, found, err := s.store.Principals().GetByID(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("principal not found")
	}
	if principal.Status != models.PrincipalStatusActive {
		return nil, errors.New("account is not active")
	}

	return s.issueTokens(principal)
}

func (s *AuthService) GetPrincipal(ctx context.Context, id uuid.UUID) (*models.Principal, error) {
	principal, found, err := s.store.Principals().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("principal not found")
	}
	return principal, nil
}

func (s *AuthService) issueTokens(principal *models.Principal) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(principal.ID, principal.Username, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(principal.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		Principal:    principal,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}
