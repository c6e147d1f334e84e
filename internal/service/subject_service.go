package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/models"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

type subjectUpstream interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	CreateSubject(ctx context.Context, name string) (*models.Subject, error)
	UpdateSubject(ctx context.Context, id int64, name string) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id int64) error
}

// SubjectRequest is the create/update payload. The field key matches
// the form the admin client submits.
type SubjectRequest struct {
	Name string `json:"nombre" validate:"required"`
}

// SubjectService proxies materia CRUD against the backend. Mutations
// re-fetch the list so the caller always renders fresh data.
type SubjectService struct {
	upstream  subjectUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(upstream subjectUpstream, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{upstream: upstream, validator: validate, logger: logger}
}

// List returns all subjects.
func (s *SubjectService) List(ctx context.Context) ([]models.Subject, error) {
	return s.upstream.ListSubjects(ctx)
}

// Create adds a subject and returns the refreshed list.
func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) ([]models.Subject, error) {
	name, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.upstream.CreateSubject(ctx, name); err != nil {
		return nil, err
	}
	return s.upstream.ListSubjects(ctx)
}

// Update renames a subject and returns the refreshed list.
func (s *SubjectService) Update(ctx context.Context, id int64, req SubjectRequest) ([]models.Subject, error) {
	name, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.upstream.UpdateSubject(ctx, id, name); err != nil {
		return nil, err
	}
	return s.upstream.ListSubjects(ctx)
}

// Delete removes a subject and returns the refreshed list.
func (s *SubjectService) Delete(ctx context.Context, id int64) ([]models.Subject, error) {
	if err := s.upstream.DeleteSubject(ctx, id); err != nil {
		return nil, err
	}
	return s.upstream.ListSubjects(ctx)
}

func (s *SubjectService) normalize(req SubjectRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", appErrors.WithFields(map[string]string{"nombre": "name is required"})
	}
	return name, nil
}
