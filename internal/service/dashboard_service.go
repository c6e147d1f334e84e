package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/models"
)

type dashboardUpstream interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListClassrooms(ctx context.Context) ([]models.Classroom, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	ListScheduleEntries(ctx context.Context) ([]models.ScheduleEntry, error)
}

// AdminSummary is the landing-screen count card set.
type AdminSummary struct {
	Subjects        int `json:"materias"`
	Classrooms      int `json:"aulas"`
	Groups          int `json:"grupos"`
	TimeSlots       int `json:"horarios"`
	Teachers        int `json:"docentes"`
	ScheduleEntries int `json:"detalle_horarios"`
}

// TeacherOverview is the read-only landing view for teacher accounts:
// the full timetable plus its size. Teachers cannot mutate anything.
type TeacherOverview struct {
	Rows  []models.ScheduleRow `json:"horarios"`
	Total int                  `json:"total"`
}

// DashboardService aggregates landing-screen data for both roles.
type DashboardService struct {
	upstream dashboardUpstream
	schedule scheduleRowSource
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(upstream dashboardUpstream, schedule scheduleRowSource, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{upstream: upstream, schedule: schedule, logger: logger}
}

// AdminSummary fetches all six counts concurrently.
func (s *DashboardService) AdminSummary(ctx context.Context) (*AdminSummary, error) {
	summary := &AdminSummary{}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	run := func(fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	run(func() error {
		items, err := s.upstream.ListSubjects(ctx)
		summary.Subjects = len(items)
		return err
	})
	run(func() error {
		items, err := s.upstream.ListClassrooms(ctx)
		summary.Classrooms = len(items)
		return err
	})
	run(func() error {
		items, err := s.upstream.ListGroups(ctx)
		summary.Groups = len(items)
		return err
	})
	run(func() error {
		items, err := s.upstream.ListTimeSlots(ctx)
		summary.TimeSlots = len(items)
		return err
	})
	run(func() error {
		items, err := s.upstream.ListTeachers(ctx)
		summary.Teachers = len(items)
		return err
	})
	run(func() error {
		items, err := s.upstream.ListScheduleEntries(ctx)
		summary.ScheduleEntries = len(items)
		return err
	})

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return summary, nil
}

// TeacherOverview returns the timetable as display rows.
func (s *DashboardService) TeacherOverview(ctx context.Context) (*TeacherOverview, error) {
	rows, err := s.schedule.List(ctx)
	if err != nil {
		return nil, err
	}
	return &TeacherOverview{Rows: rows, Total: len(rows)}, nil
}
