package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/models"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

// placeholders for dangling references and empty assignment sets.
const (
	missingReference  = "N/A"
	noTeacherAssigned = "unassigned"
)

type scheduleUpstream interface {
	ListScheduleEntries(ctx context.Context) ([]models.ScheduleEntry, error)
	CreateScheduleEntry(ctx context.Context, entry models.ScheduleEntry) (*models.ScheduleEntry, error)
	UpdateScheduleEntry(ctx context.Context, entry models.ScheduleEntry) (*models.ScheduleEntry, error)
	DeleteScheduleEntry(ctx context.Context, id int64) error

	ListTeacherAssignments(ctx context.Context) ([]models.TeacherAssignment, error)
	CreateTeacherAssignment(ctx context.Context, assignment models.TeacherAssignment) (*models.TeacherAssignment, error)
	DeleteTeacherAssignment(ctx context.Context, id int64) error

	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListClassrooms(ctx context.Context) ([]models.Classroom, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	ListAttendances(ctx context.Context) ([]models.AttendanceRef, error)
}

// ScheduleRequest is the create/update payload for one timetable
// entry plus the teachers assigned to it.
type ScheduleRequest struct {
	TimeSlotID  int64   `json:"horario_id" validate:"required"`
	ClassRoomID int64   `json:"aula_id" validate:"required"`
	GroupID     int64   `json:"grupo_id" validate:"required"`
	SubjectID   int64   `json:"materia_id" validate:"required"`
	TeacherIDs  []int64 `json:"docente_ids" validate:"required,min=1"`
}

// scheduleData holds one consistent snapshot of every list a schedule
// row joins across.
type scheduleData struct {
	entries     []models.ScheduleEntry
	assignments []models.TeacherAssignment
	subjects    []models.Subject
	classrooms  []models.Classroom
	groups      []models.Group
	timeSlots   []models.TimeSlot
	teachers    []models.Teacher
}

// ScheduleService reconciles the two join tables behind the timetable
// screen: detalle-horario rows and their detalle-docente links. The
// backend offers no transactional endpoint for the pair, so mutations
// run as ordered sequences of single-row calls.
type ScheduleService struct {
	upstream            scheduleUpstream
	validator           *validator.Validate
	logger              *zap.Logger
	defaultAttendanceID int64
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(upstream scheduleUpstream, defaultAttendanceID int64, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		upstream:            upstream,
		validator:           validate,
		logger:              logger,
		defaultAttendanceID: defaultAttendanceID,
	}
}

// List returns the denormalized timetable rows.
func (s *ScheduleService) List(ctx context.Context) ([]models.ScheduleRow, error) {
	data, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildRows(data), nil
}

// Get returns one entry with its display row and the reconstructed
// form values, including the current teacher ids.
func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.ScheduleDetail, error) {
	data, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, entry := range data.entries {
		if entry.ID != id {
			continue
		}
		detail := buildDetail(entry, data)
		return &detail, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
}

// Create inserts the entry, then one assignment per teacher. A failure
// after the entry committed is reported as a partial sequence so the
// operator knows the timetable holds a half-written row.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleRequest) ([]models.ScheduleRow, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	attendanceID, err := s.resolveAttendanceID(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.upstream.CreateScheduleEntry(ctx, models.ScheduleEntry{
		TimeSlotID:  req.TimeSlotID,
		ClassRoomID: req.ClassRoomID,
		GroupID:     req.GroupID,
		SubjectID:   req.SubjectID,
	})
	if err != nil {
		return nil, err
	}

	for _, teacherID := range req.TeacherIDs {
		_, err := s.upstream.CreateTeacherAssignment(ctx, models.TeacherAssignment{
			ScheduleEntryID: created.ID,
			TeacherID:       teacherID,
			AttendanceID:    attendanceID,
		})
		if err != nil {
			s.logger.Error("teacher assignment failed after entry was created",
				zap.Int64("entry_id", created.ID),
				zap.Int64("teacher_id", teacherID),
				zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrPartialSequence.Code, appErrors.ErrPartialSequence.Status,
				fmt.Sprintf("schedule entry %d was created but assigning teacher %d failed", created.ID, teacherID))
		}
	}

	return s.List(ctx)
}

// Update rewrites the entry and replaces its assignment set: every
// existing link is deleted, then one link per requested teacher is
// inserted. No diffing; the backend rows are cheap and the replace
// keeps the sequence deterministic.
func (s *ScheduleService) Update(ctx context.Context, id int64, req ScheduleRequest) ([]models.ScheduleRow, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	attendanceID, err := s.resolveAttendanceID(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.upstream.ListTeacherAssignments(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.upstream.UpdateScheduleEntry(ctx, models.ScheduleEntry{
		ID:          id,
		TimeSlotID:  req.TimeSlotID,
		ClassRoomID: req.ClassRoomID,
		GroupID:     req.GroupID,
		SubjectID:   req.SubjectID,
	}); err != nil {
		return nil, err
	}

	for _, assignment := range existing {
		if assignment.ScheduleEntryID != id {
			continue
		}
		if err := s.upstream.DeleteTeacherAssignment(ctx, assignment.ID); err != nil {
			s.logger.Error("assignment cleanup failed after entry update",
				zap.Int64("entry_id", id),
				zap.Int64("assignment_id", assignment.ID),
				zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrPartialSequence.Code, appErrors.ErrPartialSequence.Status,
				fmt.Sprintf("schedule entry %d was updated but removing assignment %d failed", id, assignment.ID))
		}
	}

	for _, teacherID := range req.TeacherIDs {
		_, err := s.upstream.CreateTeacherAssignment(ctx, models.TeacherAssignment{
			ScheduleEntryID: id,
			TeacherID:       teacherID,
			AttendanceID:    attendanceID,
		})
		if err != nil {
			s.logger.Error("teacher assignment failed after entry update",
				zap.Int64("entry_id", id),
				zap.Int64("teacher_id", teacherID),
				zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrPartialSequence.Code, appErrors.ErrPartialSequence.Status,
				fmt.Sprintf("schedule entry %d was updated but assigning teacher %d failed", id, teacherID))
		}
	}

	return s.List(ctx)
}

// Delete removes the entry's assignments first, then the entry itself,
// so the backend never holds a link row pointing at a deleted entry.
func (s *ScheduleService) Delete(ctx context.Context, id int64) ([]models.ScheduleRow, error) {
	assignments, err := s.upstream.ListTeacherAssignments(ctx)
	if err != nil {
		return nil, err
	}

	removedAny := false
	for _, assignment := range assignments {
		if assignment.ScheduleEntryID != id {
			continue
		}
		if err := s.upstream.DeleteTeacherAssignment(ctx, assignment.ID); err != nil {
			if removedAny {
				return nil, appErrors.Wrap(err, appErrors.ErrPartialSequence.Code, appErrors.ErrPartialSequence.Status,
					fmt.Sprintf("some assignments of schedule entry %d were removed before the failure", id))
			}
			return nil, err
		}
		removedAny = true
	}

	if err := s.upstream.DeleteScheduleEntry(ctx, id); err != nil {
		if removedAny {
			return nil, appErrors.Wrap(err, appErrors.ErrPartialSequence.Code, appErrors.ErrPartialSequence.Status,
				fmt.Sprintf("assignments of schedule entry %d were removed but deleting the entry failed", id))
		}
		return nil, err
	}

	return s.List(ctx)
}

// validate runs before any upstream call so an invalid form never
// reaches the backend.
func (s *ScheduleService) validate(req ScheduleRequest) error {
	fields := make(map[string]string)
	if req.TimeSlotID <= 0 {
		fields["horario_id"] = "time slot is required"
	}
	if req.ClassRoomID <= 0 {
		fields["aula_id"] = "classroom is required"
	}
	if req.GroupID <= 0 {
		fields["grupo_id"] = "group is required"
	}
	if req.SubjectID <= 0 {
		fields["materia_id"] = "subject is required"
	}
	if len(req.TeacherIDs) == 0 {
		fields["docente_ids"] = "at least one teacher is required"
	}
	for _, teacherID := range req.TeacherIDs {
		if teacherID <= 0 {
			fields["docente_ids"] = "teacher ids must be positive"
			break
		}
	}
	if len(fields) > 0 {
		return appErrors.WithFields(fields)
	}
	return nil
}

// resolveAttendanceID returns the attendance reference stamped on new
// assignments: the configured id, or the first record the backend
// offers when no id is configured.
func (s *ScheduleService) resolveAttendanceID(ctx context.Context) (int64, error) {
	if s.defaultAttendanceID > 0 {
		return s.defaultAttendanceID, nil
	}
	refs, err := s.upstream.ListAttendances(ctx)
	if err != nil {
		return 0, err
	}
	if len(refs) == 0 {
		return 0, appErrors.Clone(appErrors.ErrUpstream, "backend has no attendance records to reference")
	}
	return refs[0].ID, nil
}

// loadAll fetches every list the timetable joins across, concurrently.
// The first error wins; the snapshot is only used when all seven
// fetches succeed.
func (s *ScheduleService) loadAll(ctx context.Context) (*scheduleData, error) {
	data := &scheduleData{}

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

	run(func() (err error) { data.entries, err = s.upstream.ListScheduleEntries(ctx); return })
	run(func() (err error) { data.assignments, err = s.upstream.ListTeacherAssignments(ctx); return })
	run(func() (err error) { data.subjects, err = s.upstream.ListSubjects(ctx); return })
	run(func() (err error) { data.classrooms, err = s.upstream.ListClassrooms(ctx); return })
	run(func() (err error) { data.groups, err = s.upstream.ListGroups(ctx); return })
	run(func() (err error) { data.timeSlots, err = s.upstream.ListTimeSlots(ctx); return })
	run(func() (err error) { data.teachers, err = s.upstream.ListTeachers(ctx); return })

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return data, nil
}

// buildRows derives the display rows from a snapshot. Pure; dangling
// foreign keys render as N/A rather than dropping the row, so a broken
// reference stays visible to the operator.
func buildRows(data *scheduleData) []models.ScheduleRow {
	lookup := newScheduleLookup(data)

	rows := make([]models.ScheduleRow, 0, len(data.entries))
	for _, entry := range data.entries {
		rows = append(rows, lookup.row(entry))
	}
	return rows
}

func buildDetail(entry models.ScheduleEntry, data *scheduleData) models.ScheduleDetail {
	lookup := newScheduleLookup(data)

	teacherIDs := make([]int64, 0, 2)
	for _, assignment := range data.assignments {
		if assignment.ScheduleEntryID == entry.ID {
			teacherIDs = append(teacherIDs, assignment.TeacherID)
		}
	}
	sort.Slice(teacherIDs, func(i, j int) bool { return teacherIDs[i] < teacherIDs[j] })

	return models.ScheduleDetail{
		ScheduleRow: lookup.row(entry),
		TimeSlotID:  entry.TimeSlotID,
		ClassRoomID: entry.ClassRoomID,
		GroupID:     entry.GroupID,
		SubjectID:   entry.SubjectID,
		DocenteIDs:  teacherIDs,
	}
}

type scheduleLookup struct {
	subjects     map[int64]string
	classrooms   map[int64]string
	groups       map[int64]string
	timeSlots    map[int64]string
	teacherNames map[int64]string
	assignments  map[int64][]int64
}

func newScheduleLookup(data *scheduleData) *scheduleLookup {
	l := &scheduleLookup{
		subjects:     make(map[int64]string, len(data.subjects)),
		classrooms:   make(map[int64]string, len(data.classrooms)),
		groups:       make(map[int64]string, len(data.groups)),
		timeSlots:    make(map[int64]string, len(data.timeSlots)),
		teacherNames: make(map[int64]string, len(data.teachers)),
		assignments:  make(map[int64][]int64, len(data.assignments)),
	}
	for _, subject := range data.subjects {
		l.subjects[subject.ID] = subject.Name
	}
	for _, room := range data.classrooms {
		l.classrooms[room.ID] = fmt.Sprintf("%d", room.RoomNumber)
	}
	for _, group := range data.groups {
		l.groups[group.ID] = group.Name
	}
	for _, slot := range data.timeSlots {
		l.timeSlots[slot.ID] = fmt.Sprintf("%s - %s", slot.StartTime, slot.EndTime)
	}
	for _, teacher := range data.teachers {
		l.teacherNames[teacher.ID] = teacher.Name
	}
	for _, assignment := range data.assignments {
		l.assignments[assignment.ScheduleEntryID] = append(l.assignments[assignment.ScheduleEntryID], assignment.TeacherID)
	}
	return l
}

func (l *scheduleLookup) row(entry models.ScheduleEntry) models.ScheduleRow {
	return models.ScheduleRow{
		ID:       entry.ID,
		TimeSlot: orPlaceholder(l.timeSlots[entry.TimeSlotID]),
		Room:     orPlaceholder(l.classrooms[entry.ClassRoomID]),
		Group:    orPlaceholder(l.groups[entry.GroupID]),
		Subject:  orPlaceholder(l.subjects[entry.SubjectID]),
		Teachers: l.teacherLabel(entry.ID),
	}
}

func (l *scheduleLookup) teacherLabel(entryID int64) string {
	teacherIDs := l.assignments[entryID]
	if len(teacherIDs) == 0 {
		return noTeacherAssigned
	}
	names := make([]string, 0, len(teacherIDs))
	for _, id := range teacherIDs {
		names = append(names, orPlaceholder(l.teacherNames[id]))
	}
	return strings.Join(names, ", ")
}

func orPlaceholder(value string) string {
	if value == "" {
		return missingReference
	}
	return value
}
