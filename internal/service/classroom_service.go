package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/models"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

type classroomUpstream interface {
	ListClassrooms(ctx context.Context) ([]models.Classroom, error)
	CreateClassroom(ctx context.Context, faculty, room int) (*models.Classroom, error)
	UpdateClassroom(ctx context.Context, id int64, faculty, room int) (*models.Classroom, error)
	DeleteClassroom(ctx context.Context, id int64) error
}

// ClassroomRequest is the create/update payload. Numbers arrive as
// strings from the form; the service parses and rejects non-numeric
// input per field.
type ClassroomRequest struct {
	FacultyNumber string `json:"nroFacultad" validate:"required"`
	RoomNumber    string `json:"nroAula" validate:"required"`
}

// ClassroomService proxies aula CRUD against the backend.
type ClassroomService struct {
	upstream  classroomUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassroomService constructs a ClassroomService.
func NewClassroomService(upstream classroomUpstream, validate *validator.Validate, logger *zap.Logger) *ClassroomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{upstream: upstream, validator: validate, logger: logger}
}

// List returns all classrooms.
func (s *ClassroomService) List(ctx context.Context) ([]models.Classroom, error) {
	return s.upstream.ListClassrooms(ctx)
}

// Create adds a classroom and returns the refreshed list.
func (s *ClassroomService) Create(ctx context.Context, req ClassroomRequest) ([]models.Classroom, error) {
	faculty, room, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.upstream.CreateClassroom(ctx, faculty, room); err != nil {
		return nil, err
	}
	return s.upstream.ListClassrooms(ctx)
}

// Update modifies a classroom and returns the refreshed list.
func (s *ClassroomService) Update(ctx context.Context, id int64, req ClassroomRequest) ([]models.Classroom, error) {
	faculty, room, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.upstream.UpdateClassroom(ctx, id, faculty, room); err != nil {
		return nil, err
	}
	return s.upstream.ListClassrooms(ctx)
}

// Delete removes a classroom and returns the refreshed list.
func (s *ClassroomService) Delete(ctx context.Context, id int64) ([]models.Classroom, error) {
	if err := s.upstream.DeleteClassroom(ctx, id); err != nil {
		return nil, err
	}
	return s.upstream.ListClassrooms(ctx)
}

func (s *ClassroomService) normalize(req ClassroomRequest) (int, int, error) {
	fields := make(map[string]string)

	faculty, err := parsePositiveInt(req.FacultyNumber)
	if err != nil {
		fields["nroFacultad"] = "faculty number must be a positive integer"
	}
	room, err := parsePositiveInt(req.RoomNumber)
	if err != nil {
		fields["nroAula"] = "room number must be a positive integer"
	}

	if len(fields) > 0 {
		return 0, 0, appErrors.WithFields(fields)
	}
	return faculty, room, nil
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
