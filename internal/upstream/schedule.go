package upstream

import (
	"context"

	"github.com/edusuite/siga-gateway/internal/models"
)

// Join-table loaders for detalle-horario (schedule entries) and
// detalle-docente (teacher assignments).

func entryFromRecord(r record) models.ScheduleEntry {
	return models.ScheduleEntry{
		ID:          r.int64("ID", "id"),
		TimeSlotID:  r.int64("ID_Horario", "id_horario", "horarioId"),
		ClassRoomID: r.int64("ID_Aula", "id_aula", "aulaId"),
		GroupID:     r.int64("ID_Grupo", "id_grupo", "grupoId"),
		SubjectID:   r.int64("ID_Materia", "id_materia", "materiaId"),
	}
}

func assignmentFromRecord(r record) models.TeacherAssignment {
	return models.TeacherAssignment{
		ID:              r.int64("ID", "id"),
		ScheduleEntryID: r.int64("ID_Detalle_Horario", "id_detalle_horario", "detalleHorarioId"),
		TeacherID:       r.int64("ID_Docente", "id_docente", "docenteId"),
		AttendanceID:    r.int64("ID_Asistencia", "id_asistencia", "asistenciaId"),
	}
}

// ListScheduleEntries fetches /detalle-horario.
func (c *Client) ListScheduleEntries(ctx context.Context) ([]models.ScheduleEntry, error) {
	records, err := c.getList(ctx, "/detalle-horario")
	if err != nil {
		return nil, err
	}
	entries := make([]models.ScheduleEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, entryFromRecord(r))
	}
	return entries, nil
}

// CreateScheduleEntry posts a new detalle-horario and returns the
// normalized row; the returned id drives the assignment inserts that
// follow it.
func (c *Client) CreateScheduleEntry(ctx context.Context, entry models.ScheduleEntry) (*models.ScheduleEntry, error) {
	rec, err := c.create(ctx, "/detalle-horario", entryPayload(entry))
	if err != nil {
		return nil, err
	}
	created := entryFromRecord(rec)
	return &created, nil
}

// UpdateScheduleEntry puts a detalle-horario by id.
func (c *Client) UpdateScheduleEntry(ctx context.Context, entry models.ScheduleEntry) (*models.ScheduleEntry, error) {
	rec, err := c.update(ctx, "/detalle-horario", entry.ID, entryPayload(entry))
	if err != nil {
		return nil, err
	}
	updated := entryFromRecord(rec)
	if updated.ID == 0 {
		updated.ID = entry.ID
	}
	return &updated, nil
}

// DeleteScheduleEntry removes a detalle-horario by id.
func (c *Client) DeleteScheduleEntry(ctx context.Context, id int64) error {
	return c.remove(ctx, "/detalle-horario", id)
}

// ListTeacherAssignments fetches /detalle-docente.
func (c *Client) ListTeacherAssignments(ctx context.Context) ([]models.TeacherAssignment, error) {
	records, err := c.getList(ctx, "/detalle-docente")
	if err != nil {
		return nil, err
	}
	assignments := make([]models.TeacherAssignment, 0, len(records))
	for _, r := range records {
		assignments = append(assignments, assignmentFromRecord(r))
	}
	return assignments, nil
}

// CreateTeacherAssignment posts a new detalle-docente link row.
func (c *Client) CreateTeacherAssignment(ctx context.Context, assignment models.TeacherAssignment) (*models.TeacherAssignment, error) {
	rec, err := c.create(ctx, "/detalle-docente", map[string]interface{}{
		"ID_Detalle_Horario": assignment.ScheduleEntryID,
		"ID_Docente":         assignment.TeacherID,
		"ID_Asistencia":      assignment.AttendanceID,
	})
	if err != nil {
		return nil, err
	}
	created := assignmentFromRecord(rec)
	return &created, nil
}

// DeleteTeacherAssignment removes a detalle-docente row by id.
func (c *Client) DeleteTeacherAssignment(ctx context.Context, id int64) error {
	return c.remove(ctx, "/detalle-docente", id)
}

func entryPayload(entry models.ScheduleEntry) map[string]interface{} {
	return map[string]interface{}{
		"ID_Horario": entry.TimeSlotID,
		"ID_Aula":    entry.ClassRoomID,
		"ID_Grupo":   entry.GroupID,
		"ID_Materia": entry.SubjectID,
	}
}
