package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bidmarket/internal/apperrors"
	"bidmarket/internal/auth"
	"bidmarket/internal/model"
)

type AuthService struct {
	users     UserStore
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthService(users UserStore, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, logger: logger}
}

// Signup creates a user and returns a fresh credential for it.
func (s *AuthService) Signup(ctx context.Context, email, password, name string, role model.Role) (string, error) {
	if email == "" || password == "" || name == "" || role == "" {
		return "", apperrors.E(apperrors.ErrValidation, "All fields are required")
	}
	if !role.Valid() {
		return "", apperrors.E(apperrors.ErrValidation, "Role must be BUYER or SELLER")
	}

	existing, err := s.users.ByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	if existing != nil {
		return "", apperrors.E(apperrors.ErrConflict, "Email already exists or server error")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("User signed up",
		zap.Int("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	return auth.GenerateToken(user, s.jwtSecret)
}

// Login checks credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperrors.E(apperrors.ErrValidation, "Email and password are required")
	}

	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.E(apperrors.ErrNotFound, "User not found")
		}
		return "", err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", apperrors.E(apperrors.ErrUnauthenticated, "Invalid password")
	}

	return auth.GenerateToken(user, s.jwtSecret)
}

// Me returns the caller's public profile.
func (s *AuthService) Me(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.E(apperrors.ErrNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}
