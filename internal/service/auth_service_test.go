package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/models"
	"github.com/edusuite/siga-gateway/internal/session"
	"github.com/edusuite/siga-gateway/pkg/config"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

type mockAuthUpstream struct {
	loginUser  *models.SessionUser
	loginErr   error
	registered []RegisterRequest
}

func (m *mockAuthUpstream) Login(ctx context.Context, email, password string) (*models.SessionUser, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	cp := *m.loginUser
	return &cp, nil
}

func (m *mockAuthUpstream) Register(ctx context.Context, name, email, password string, role models.UserRole) (*models.SessionUser, error) {
	m.registered = append(m.registered, RegisterRequest{Name: name, Email: email, Password: password, Role: string(role)})
	return &models.SessionUser{ID: 99, Name: name, Email: email, Role: role}, nil
}

func sessionCfg() config.SessionConfig {
	return config.SessionConfig{Secret: "test_secret", TTL: time.Hour, Issuer: "siga-gateway"}
}

func newAuthService(upstream authUpstream, store session.Store) *AuthService {
	return NewAuthService(upstream, store, sessionCfg(), validator.New(), zap.NewNop())
}

func TestAuthLoginIssuesTokenAndSnapshot(t *testing.T) {
	store := session.NewMemoryStore()
	service := newAuthService(&mockAuthUpstream{
		loginUser: &models.SessionUser{ID: 7, Name: "Ana", Email: "ana@uni.edu", Role: models.RoleAdmin},
	}, store)

	result, err := service.Login(context.Background(), LoginRequest{Email: "ana@uni.edu", Password: "secret"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.RoleAdmin, result.User.Role)

	snapshot, err := store.Load(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Ana", snapshot.Name)

	claims, err := service.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID, "token carries a unique id")
}

func TestAuthLoginRejectsUnknownRole(t *testing.T) {
	service := newAuthService(&mockAuthUpstream{
		loginUser: &models.SessionUser{ID: 7, Role: models.UserRole("student")},
	}, session.NewMemoryStore())

	_, err := service.Login(context.Background(), LoginRequest{Email: "x@uni.edu", Password: "secret"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginPropagatesInvalidCredentials(t *testing.T) {
	service := newAuthService(&mockAuthUpstream{loginErr: appErrors.ErrInvalidCredentials}, session.NewMemoryStore())

	_, err := service.Login(context.Background(), LoginRequest{Email: "x@uni.edu", Password: "wrong"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginValidatesPayload(t *testing.T) {
	upstream := &mockAuthUpstream{loginUser: &models.SessionUser{ID: 7, Role: models.RoleAdmin}}
	service := newAuthService(upstream, session.NewMemoryStore())

	_, err := service.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: "secret"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateTokenRejectsTampered(t *testing.T) {
	service := newAuthService(&mockAuthUpstream{
		loginUser: &models.SessionUser{ID: 7, Role: models.RoleAdmin},
	}, session.NewMemoryStore())

	result, err := service.Login(context.Background(), LoginRequest{Email: "a@uni.edu", Password: "p"})
	require.NoError(t, err)

	_, err = service.ValidateToken(result.Token + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthLogoutClearsSnapshot(t *testing.T) {
	store := session.NewMemoryStore()
	service := newAuthService(&mockAuthUpstream{
		loginUser: &models.SessionUser{ID: 7, Role: models.RoleTeacher},
	}, store)

	_, err := service.Login(context.Background(), LoginRequest{Email: "a@uni.edu", Password: "p"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), 7))

	_, err = service.CurrentUser(context.Background(), 7)
	assert.Error(t, err)
}

func TestAuthUpdateProfileRewritesSnapshot(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), models.SessionUser{
		ID: 7, Name: "Ana", Email: "ana@uni.edu", Role: models.RoleAdmin,
	}))
	service := newAuthService(&mockAuthUpstream{}, store)

	updated, err := service.UpdateProfile(context.Background(), 7, UpdateProfileRequest{
		Name:  "Ana Maria",
		Email: "ana.maria@uni.edu",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, models.RoleAdmin, updated.Role, "role never changes through profile edit")

	snapshot, err := store.Load(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "ana.maria@uni.edu", snapshot.Email)
}

func TestAuthRegisterProxiesUpstream(t *testing.T) {
	upstream := &mockAuthUpstream{}
	service := newAuthService(upstream, session.NewMemoryStore())

	user, err := service.Register(context.Background(), RegisterRequest{
		Name:     "Nuevo Docente",
		Email:    "nuevo@uni.edu",
		Password: "secret1",
		Role:     "teacher",
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, user.Role)
	require.Len(t, upstream.registered, 1)
}

func TestAuthRegisterRejectsBadRole(t *testing.T) {
	upstream := &mockAuthUpstream{}
	service := newAuthService(upstream, session.NewMemoryStore())

	_, err := service.Register(context.Background(), RegisterRequest{
		Name:     "X",
		Email:    "x@uni.edu",
		Password: "secret1",
		Role:     "superuser",
	})

	require.Error(t, err)
	assert.Empty(t, upstream.registered)
}
