package service

import (
	"context"
	"errors"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/logger"
	"divecenter-backend/internal/repository"
	"divecenter-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for both unknown email and wrong
// password, so login failures do not reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	store  repository.Store
	tokens security.TokenManager
}

func NewAuthService(store repository.Store, tokens security.TokenManager) AuthService {
	return &authService{store: store, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, *domain.StaffUser, error) {
	user, err := s.store.Staff().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", nil, ErrInvalidCredentials
		}
		return "", "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.CenterID, user.Email, string(user.Role))
	if err != nil {
		return "", "", nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.CenterID, user.Email)
	if err != nil {
		return "", "", nil, err
	}

	logger.InfoContext(ctx, "staff login", "user_id", user.ID, "center_id", user.CenterID)
	return access, refresh, user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	user, err := s.store.Staff().GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", err
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.CenterID, user.Email, string(user.Role))
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.CenterID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
