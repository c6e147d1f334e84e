package upstream

import (
	"context"

	"github.com/edusuite/siga-gateway/internal/models"
)

// Reference-entity loaders. Each one translates the backend's wire
// casing into the client shape; the fallback key order is the
// backend's canonical casing first, then the lowercase variants some
// deployments emit.

func subjectFromRecord(r record) models.Subject {
	return models.Subject{
		ID:   r.int64("ID", "id"),
		Name: r.str("Nombre", "nombre"),
	}
}

func classroomFromRecord(r record) models.Classroom {
	return models.Classroom{
		ID:            r.int64("ID", "id"),
		FacultyNumber: int(r.int64("Nro_Facultad", "nro_facultad", "nroFacultad")),
		RoomNumber:    int(r.int64("Nro_Aula", "nro_aula", "nroAula")),
	}
}

func groupFromRecord(r record) models.Group {
	return models.Group{
		ID:   r.int64("ID", "id"),
		Name: r.str("Nombre", "nombre"),
	}
}

func timeSlotFromRecord(r record) models.TimeSlot {
	return models.TimeSlot{
		ID:        r.int64("ID", "id"),
		StartTime: r.str("Hora_Inicio", "hora_inicio", "horaInicio"),
		EndTime:   r.str("Hora_Fin", "hora_fin", "horaFin"),
	}
}

func teacherFromRecord(r record) models.Teacher {
	return models.Teacher{
		ID:   r.int64("ID", "id"),
		Name: r.str("Nombre", "nombre", "Name", "name"),
	}
}

// ListSubjects fetches /materia.
func (c *Client) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	records, err := c.getList(ctx, "/materia")
	if err != nil {
		return nil, err
	}
	subjects := make([]models.Subject, 0, len(records))
	for _, r := range records {
		subjects = append(subjects, subjectFromRecord(r))
	}
	return subjects, nil
}

// CreateSubject posts a new materia and returns the normalized result.
func (c *Client) CreateSubject(ctx context.Context, name string) (*models.Subject, error) {
	rec, err := c.create(ctx, "/materia", map[string]interface{}{"Nombre": name})
	if err != nil {
		return nil, err
	}
	subject := subjectFromRecord(rec)
	return &subject, nil
}

// UpdateSubject puts a materia by id.
func (c *Client) UpdateSubject(ctx context.Context, id int64, name string) (*models.Subject, error) {
	rec, err := c.update(ctx, "/materia", id, map[string]interface{}{"Nombre": name})
	if err != nil {
		return nil, err
	}
	subject := subjectFromRecord(rec)
	if subject.ID == 0 {
		subject.ID = id
	}
	return &subject, nil
}

// DeleteSubject removes a materia by id.
func (c *Client) DeleteSubject(ctx context.Context, id int64) error {
	return c.remove(ctx, "/materia", id)
}

// ListClassrooms fetches /aula.
func (c *Client) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	records, err := c.getList(ctx, "/aula")
	if err != nil {
		return nil, err
	}
	rooms := make([]models.Classroom, 0, len(records))
	for _, r := range records {
		rooms = append(rooms, classroomFromRecord(r))
	}
	return rooms, nil
}

// CreateClassroom posts a new aula.
func (c *Client) CreateClassroom(ctx context.Context, faculty, room int) (*models.Classroom, error) {
	rec, err := c.create(ctx, "/aula", map[string]interface{}{
		"Nro_Facultad": faculty,
		"Nro_Aula":     room,
	})
	if err != nil {
		return nil, err
	}
	classroom := classroomFromRecord(rec)
	return &classroom, nil
}

// UpdateClassroom puts an aula by id.
func (c *Client) UpdateClassroom(ctx context.Context, id int64, faculty, room int) (*models.Classroom, error) {
	rec, err := c.update(ctx, "/aula", id, map[string]interface{}{
		"Nro_Facultad": faculty,
		"Nro_Aula":     room,
	})
	if err != nil {
		return nil, err
	}
	classroom := classroomFromRecord(rec)
	if classroom.ID == 0 {
		classroom.ID = id
	}
	return &classroom, nil
}

// DeleteClassroom removes an aula by id.
func (c *Client) DeleteClassroom(ctx context.Context, id int64) error {
	return c.remove(ctx, "/aula", id)
}

// ListGroups fetches /grupos.
func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	records, err := c.getList(ctx, "/grupos")
	if err != nil {
		return nil, err
	}
	groups := make([]models.Group, 0, len(records))
	for _, r := range records {
		groups = append(groups, groupFromRecord(r))
	}
	return groups, nil
}

// CreateGroup posts a new grupo.
func (c *Client) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	rec, err := c.create(ctx, "/grupos", map[string]interface{}{"Nombre": name})
	if err != nil {
		return nil, err
	}
	group := groupFromRecord(rec)
	return &group, nil
}

// UpdateGroup puts a grupo by id.
func (c *Client) UpdateGroup(ctx context.Context, id int64, name string) (*models.Group, error) {
	rec, err := c.update(ctx, "/grupos", id, map[string]interface{}{"Nombre": name})
	if err != nil {
		return nil, err
	}
	group := groupFromRecord(rec)
	if group.ID == 0 {
		group.ID = id
	}
	return &group, nil
}

// DeleteGroup removes a grupo by id.
func (c *Client) DeleteGroup(ctx context.Context, id int64) error {
	return c.remove(ctx, "/grupos", id)
}

// ListTimeSlots fetches /horarios.
func (c *Client) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	records, err := c.getList(ctx, "/horarios")
	if err != nil {
		return nil, err
	}
	slots := make([]models.TimeSlot, 0, len(records))
	for _, r := range records {
		slots = append(slots, timeSlotFromRecord(r))
	}
	return slots, nil
}

// CreateTimeSlot posts a new horario. Times must be HH:MM:SS.
func (c *Client) CreateTimeSlot(ctx context.Context, start, end string) (*models.TimeSlot, error) {
	rec, err := c.create(ctx, "/horarios", map[string]interface{}{
		"Hora_Inicio": start,
		"Hora_Fin":    end,
	})
	if err != nil {
		return nil, err
	}
	slot := timeSlotFromRecord(rec)
	return &slot, nil
}

// UpdateTimeSlot puts a horario by id.
func (c *Client) UpdateTimeSlot(ctx context.Context, id int64, start, end string) (*models.TimeSlot, error) {
	rec, err := c.update(ctx, "/horarios", id, map[string]interface{}{
		"Hora_Inicio": start,
		"Hora_Fin":    end,
	})
	if err != nil {
		return nil, err
	}
	slot := timeSlotFromRecord(rec)
	if slot.ID == 0 {
		slot.ID = id
	}
	return &slot, nil
}

// DeleteTimeSlot removes a horario by id.
func (c *Client) DeleteTimeSlot(ctx context.Context, id int64) error {
	return c.remove(ctx, "/horarios", id)
}

// ListTeachers fetches /docente. Read-only in this scope.
func (c *Client) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	records, err := c.getList(ctx, "/docente")
	if err != nil {
		return nil, err
	}
	teachers := make([]models.Teacher, 0, len(records))
	for _, r := range records {
		teachers = append(teachers, teacherFromRecord(r))
	}
	return teachers, nil
}

// ListAttendances fetches /asistencias; only ids are used, as the
// default reference for created teacher assignments.
func (c *Client) ListAttendances(ctx context.Context) ([]models.AttendanceRef, error) {
	records, err := c.getList(ctx, "/asistencias")
	if err != nil {
		return nil, err
	}
	refs := make([]models.AttendanceRef, 0, len(records))
	for _, r := range records {
		refs = append(refs, models.AttendanceRef{ID: r.int64("ID", "id")})
	}
	return refs, nil
}
