package upstream

import (
	"context"
	"errors"
	"strings"

	"github.com/edusuite/siga-gateway/internal/models"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

// userFromRecord normalizes a backend user object. Login responses
// sometimes nest the user under "user" or "data"; callers pass the
// already-unwrapped record here.
func userFromRecord(r record) models.SessionUser {
	role := strings.ToLower(r.str("Role", "role", "Rol", "rol"))
	return models.SessionUser{
		ID:    r.int64("ID", "id"),
		Name:  r.str("Name", "name", "Nombre", "nombre"),
		Email: r.str("Email", "email"),
		Role:  models.UserRole(role),
	}
}

// unwrapUser digs the user object out of a login or profile response,
// whichever level it sits at.
func unwrapUser(rec record) models.SessionUser {
	if inner, ok := rec.object("user", "User", "data"); ok {
		return userFromRecord(inner)
	}
	return userFromRecord(rec)
}

// Login authenticates against the backend. The backend sets its
// session cookie on success, which the client's jar keeps for every
// later call.
func (c *Client) Login(ctx context.Context, email, password string) (*models.SessionUser, error) {
	body, err := c.do(ctx, "POST", "/login", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Status == appErrors.ErrUnauthorized.Status {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}
	rec, err := decodeMutation(body)
	if err != nil {
		return nil, err
	}
	user := unwrapUser(rec)
	if user.ID == 0 {
		// Some deployments return only the cookie; fetch the profile
		// to fill the snapshot.
		return c.FetchUser(ctx)
	}
	return &user, nil
}

// Register creates a backend account. Admin-only at the routing layer.
func (c *Client) Register(ctx context.Context, name, email, password string, role models.UserRole) (*models.SessionUser, error) {
	rec, err := c.create(ctx, "/register", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     string(role),
	})
	if err != nil {
		return nil, err
	}
	user := unwrapUser(rec)
	return &user, nil
}

// FetchUser retrieves the authenticated profile via the session cookie.
func (c *Client) FetchUser(ctx context.Context) (*models.SessionUser, error) {
	body, err := c.do(ctx, "GET", "/user", nil)
	if err != nil {
		return nil, err
	}
	rec, err := decodeMutation(body)
	if err != nil {
		return nil, err
	}
	user := unwrapUser(rec)
	return &user, nil
}
