package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"dashpos/internal/domain"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

type Service struct {
	repo   *Repository
	tokens *TokenManager
}

func NewService(repo *Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) RegisterBusiness(ctx context.Context, req domain.RegisterBusinessRequest) (*domain.TokenResponse, error) {
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	bizType := req.BusinessType
	if bizType == "" {
		bizType = "restaurant"
	}
	user := domain.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
	}
	business := domain.Business{
		ID:   uuid.New().String(),
		Name: req.BusinessName,
		Type: bizType,
	}

	if err := s.repo.CreateUserWithBusiness(ctx, user, business); err != nil {
		return nil, err
	}

	roles := []domain.BusinessRole{{BusinessID: business.ID, Role: domain.RoleOwner}}
	return s.issueTokens(user.ID, roles)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	roles, err := s.repo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user.ID, roles)
}

// Refresh re-reads roles from the database so a token refresh picks up role
// changes made since login.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, error) {
	claims, err := s.tokens.Validate(refreshToken, "refresh")
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	roles, err := s.repo.GetRoles(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(claims.UserID, roles)
}

func (s *Service) Me(ctx context.Context, userID string) (*domain.User, []domain.BusinessRole, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	roles, err := s.repo.GetRoles(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, roles, nil
}

func (s *Service) UpdatePassword(ctx context.Context, userID string, req domain.UpdatePasswordRequest) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

func (s *Service) issueTokens(userID string, roles []domain.BusinessRole) (*domain.TokenResponse, error) {
	access, refresh, err := s.tokens.Generate(userID, roles)
	if err != nil {
		return nil, fmt.Errorf("sign tokens: %w", err)
	}
	return &domain.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
		UserID:       userID,
		Roles:        roles,
	}, nil
}
