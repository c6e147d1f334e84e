package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/models"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

type groupUpstream interface {
	ListGroups(ctx context.Context) ([]models.Group, error)
	CreateGroup(ctx context.Context, name string) (*models.Group, error)
	UpdateGroup(ctx context.Context, id int64, name string) (*models.Group, error)
	DeleteGroup(ctx context.Context, id int64) error
}

// GroupRequest is the create/update payload.
type GroupRequest struct {
	Name string `json:"nombre" validate:"required"`
}

// GroupService proxies grupo CRUD against the backend.
type GroupService struct {
	upstream  groupUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGroupService constructs a GroupService.
func NewGroupService(upstream groupUpstream, validate *validator.Validate, logger *zap.Logger) *GroupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{upstream: upstream, validator: validate, logger: logger}
}

// List returns all groups.
func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	return s.upstream.ListGroups(ctx)
}

// Create adds a group and returns the refreshed list.
func (s *GroupService) Create(ctx context.Context, req GroupRequest) ([]models.Group, error) {
	name, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.upstream.CreateGroup(ctx, name); err != nil {
		return nil, err
	}
	return s.upstream.ListGroups(ctx)
}

// Update renames a group and returns the refreshed list.
func (s *GroupService) Update(ctx context.Context, id int64, req GroupRequest) ([]models.Group, error) {
	name, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.upstream.UpdateGroup(ctx, id, name); err != nil {
		return nil, err
	}
	return s.upstream.ListGroups(ctx)
}

// Delete removes a group and returns the refreshed list.
func (s *GroupService) Delete(ctx context.Context, id int64) ([]models.Group, error) {
	if err := s.upstream.DeleteGroup(ctx, id); err != nil {
		return nil, err
	}
	return s.upstream.ListGroups(ctx)
}

func (s *GroupService) normalize(req GroupRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", appErrors.WithFields(map[string]string{"nombre": "name is required"})
	}
	return name, nil
}
