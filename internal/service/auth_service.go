package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/models"
	"github.com/edusuite/siga-gateway/internal/session"
	"github.com/edusuite/siga-gateway/pkg/config"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

type authUpstream interface {
	Login(ctx context.Context, email, password string) (*models.SessionUser, error)
	Register(ctx context.Context, name, email, password string, role models.UserRole) (*models.SessionUser, error)
}

// LoginRequest is the credential payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a backend account. Only admins reach this.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin teacher"`
}

// UpdateProfileRequest rewrites the session snapshot's display fields.
// The backend account itself is not touched.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// LoginResult pairs the issued token with the session snapshot.
type LoginResult struct {
	Token string             `json:"token"`
	User  models.SessionUser `json:"user"`
}

// AuthService authenticates against the backend and manages
// gateway-issued session tokens plus the per-user session snapshot.
type AuthService struct {
	upstream  authUpstream
	store     session.Store
	cfg       config.SessionConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(upstream authUpstream, store session.Store, cfg config.SessionConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{upstream: upstream, store: store, cfg: cfg, validator: validate, logger: logger}
}

// Login authenticates the credentials upstream, persists the session
// snapshot and issues a signed token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithFields(map[string]string{"email": "valid email and password are required"})
	}

	user, err := s.upstream.Login(ctx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin && user.Role != models.RoleTeacher {
		s.logger.Warn("login with unknown role rejected",
			zap.Int64("user_id", user.ID),
			zap.String("role", string(user.Role)))
		return nil, appErrors.Clone(appErrors.ErrForbidden, "account role is not allowed here")
	}

	if err := s.store.Save(ctx, *user); err != nil {
		return nil, err
	}

	token, err := s.issueToken(*user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)))

	return &LoginResult{Token: token, User: *user}, nil
}

// Logout drops the session snapshot. Already-issued tokens expire on
// their own; without a snapshot they no longer resolve to a user.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.store.Clear(ctx, userID)
}

// Register proxies account creation to the backend.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.SessionUser, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithFields(map[string]string{
			"email": "name, valid email, a password of at least 6 characters and a role are required",
		})
	}
	return s.upstream.Register(ctx,
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.Email),
		req.Password,
		models.UserRole(req.Role))
}

// CurrentUser loads the session snapshot behind a validated token.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.SessionUser, error) {
	return s.store.Load(ctx, userID)
}

// UpdateProfile rewrites the snapshot's display fields and returns the
// updated snapshot.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*models.SessionUser, error) {
	if err := s.validator.Struct(req); err != nil {
		fields := make(map[string]string)
		if strings.TrimSpace(req.Name) == "" {
			fields["name"] = "name is required"
		}
		if fields["name"] == "" {
			fields["email"] = "a valid email is required"
		}
		return nil, appErrors.WithFields(fields)
	}

	user, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = strings.TrimSpace(req.Email)

	if err := s.store.Save(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// ValidateToken parses and verifies a gateway-issued token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) issueToken(user models.SessionUser) (string, error) {
	now := time.Now()
	claims := models.JWTClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign session token")
	}
	return signed, nil
}
