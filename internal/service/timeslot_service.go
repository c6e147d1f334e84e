package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/models"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

type timeSlotUpstream interface {
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
	CreateTimeSlot(ctx context.Context, start, end string) (*models.TimeSlot, error)
	UpdateTimeSlot(ctx context.Context, id int64, start, end string) (*models.TimeSlot, error)
	DeleteTimeSlot(ctx context.Context, id int64) error
}

// TimeSlotRequest is the create/update payload. Time pickers submit
// HH:MM; the backend stores HH:MM:SS.
type TimeSlotRequest struct {
	StartTime string `json:"horaInicio" validate:"required"`
	EndTime   string `json:"horaFin" validate:"required"`
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// TimeSlotService proxies horario CRUD against the backend.
type TimeSlotService struct {
	upstream  timeSlotUpstream
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeSlotService constructs a TimeSlotService.
func NewTimeSlotService(upstream timeSlotUpstream, validate *validator.Validate, logger *zap.Logger) *TimeSlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSlotService{upstream: upstream, validator: validate, logger: logger}
}

// List returns all time slots.
func (s *TimeSlotService) List(ctx context.Context) ([]models.TimeSlot, error) {
	return s.upstream.ListTimeSlots(ctx)
}

// Create adds a time slot and returns the refreshed list.
func (s *TimeSlotService) Create(ctx context.Context, req TimeSlotRequest) ([]models.TimeSlot, error) {
	start, end, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.upstream.CreateTimeSlot(ctx, start, end); err != nil {
		return nil, err
	}
	return s.upstream.ListTimeSlots(ctx)
}

// Update modifies a time slot and returns the refreshed list.
func (s *TimeSlotService) Update(ctx context.Context, id int64, req TimeSlotRequest) ([]models.TimeSlot, error) {
	start, end, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.upstream.UpdateTimeSlot(ctx, id, start, end); err != nil {
		return nil, err
	}
	return s.upstream.ListTimeSlots(ctx)
}

// Delete removes a time slot and returns the refreshed list.
func (s *TimeSlotService) Delete(ctx context.Context, id int64) ([]models.TimeSlot, error) {
	if err := s.upstream.DeleteTimeSlot(ctx, id); err != nil {
		return nil, err
	}
	return s.upstream.ListTimeSlots(ctx)
}

func (s *TimeSlotService) normalize(req TimeSlotRequest) (string, string, error) {
	fields := make(map[string]string)

	start, ok := normalizeClock(req.StartTime)
	if !ok {
		fields["horaInicio"] = "start time must be HH:MM"
	}
	end, ok := normalizeClock(req.EndTime)
	if !ok {
		fields["horaFin"] = "end time must be HH:MM"
	}
	if len(fields) == 0 && end <= start {
		fields["horaFin"] = "end time must be after start time"
	}

	if len(fields) > 0 {
		return "", "", appErrors.WithFields(fields)
	}
	return start, end, nil
}

// normalizeClock validates a clock string and pads HH:MM to HH:MM:SS.
func normalizeClock(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if !clockPattern.MatchString(trimmed) {
		return "", false
	}
	if len(trimmed) == 5 {
		trimmed += ":00"
	}
	return trimmed, true
}
