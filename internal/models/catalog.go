package models

// Reference entities in the client shape the admin SPA renders. JSON
// tags keep the field names the SPA already uses; translation from the
// backend's wire casing happens in the upstream package.

// Subject is a materia record.
type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// Classroom is an aula record.
type Classroom struct {
	ID            int64 `json:"id"`
	FacultyNumber int   `json:"nroFacultad"`
	RoomNumber    int   `json:"nroAula"`
}

// Group is a grupo record.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// TimeSlot is a horario record. Times are HH:MM:SS strings as the
// backend stores them.
type TimeSlot struct {
	ID        int64  `json:"id"`
	StartTime string `json:"horaInicio"`
	EndTime   string `json:"horaFin"`
}

// Teacher is a docente record, read-only in this scope.
type Teacher struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}

// AttendanceRef is an asistencia record; only its id matters to the
// gateway, as the default reference stamped on teacher assignments.
type AttendanceRef struct {
	ID int64 `json:"id"`
}
