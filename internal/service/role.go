package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"bidmarket/internal/apperrors"
	"bidmarket/internal/model"
)

// requireRole loads the caller from the store and checks their role, so a
// deleted account holding a valid token fails here. A missing user gets the
// same Forbidden as a role mismatch.
func requireRole(ctx context.Context, users UserStore, userID int, role model.Role, message string) (*model.User, error) {
	user, err := users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.E(apperrors.ErrForbidden, message)
		}
		return nil, err
	}
	if user.Role != role {
		return nil, apperrors.E(apperrors.ErrForbidden, message)
	}
	return user, nil
}
