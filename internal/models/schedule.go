package models

// ScheduleEntry is a detalle-horario row: one timetable slot binding a
// time-slot, classroom, group and subject by id. Teachers are attached
// through TeacherAssignment rows, never directly.
type ScheduleEntry struct {
	ID          int64 `json:"id"`
	TimeSlotID  int64 `json:"horario_id"`
	ClassRoomID int64 `json:"aula_id"`
	GroupID     int64 `json:"grupo_id"`
	SubjectID   int64 `json:"materia_id"`
}

// TeacherAssignment is a detalle-docente row linking one teacher to
// one schedule entry, with an attendance reference the backend
// requires on insert.
type TeacherAssignment struct {
	ID              int64 `json:"id"`
	ScheduleEntryID int64 `json:"detalle_horario_id"`
	TeacherID       int64 `json:"docente_id"`
	AttendanceID    int64 `json:"asistencia_id"`
}

// ScheduleRow is the denormalized, human-readable projection of a
// ScheduleEntry: joined display names instead of foreign keys. It is
// derived on demand from the live lists and never persisted.
type ScheduleRow struct {
	ID       int64  `json:"id"`
	TimeSlot string `json:"horario"`
	Room     string `json:"aula"`
	Group    string `json:"grupo"`
	Subject  string `json:"materia"`
	Teachers string `json:"docente"`
}

// ScheduleDetail is a row plus the reconstructed form values needed to
// edit the entry. DocenteIDs is recomputed from the assignment list;
// no stored field holds the current teachers.
type ScheduleDetail struct {
	ScheduleRow
	TimeSlotID  int64   `json:"horario_id"`
	ClassRoomID int64   `json:"aula_id"`
	GroupID     int64   `json:"grupo_id"`
	SubjectID   int64   `json:"materia_id"`
	DocenteIDs  []int64 `json:"docente_ids"`
}
