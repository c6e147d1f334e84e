package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/models"
)

type teacherUpstream interface {
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
}

// TeacherService exposes the docente catalog. Teachers are managed
// elsewhere; the gateway only reads them for schedule assignment.
type TeacherService struct {
	upstream teacherUpstream
	logger   *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(upstream teacherUpstream, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{upstream: upstream, logger: logger}
}

// List returns all teachers.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	return s.upstream.ListTeachers(ctx)
}
