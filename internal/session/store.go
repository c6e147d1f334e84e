package session

import (
	"context"

	"github.com/edusuite/siga-gateway/internal/models"
)

// Store persists one session snapshot per authenticated user. The
// snapshot is written on login, rewritten on profile edit and removed
// on logout; token validation never touches it.
type Store interface {
	Save(ctx context.Context, user models.SessionUser) error
	Load(ctx context.Context, userID int64) (*models.SessionUser, error)
	Clear(ctx context.Context, userID int64) error
}
