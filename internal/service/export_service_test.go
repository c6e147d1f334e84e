package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/models"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

type mockExportSource struct {
	subjects []models.Subject
	rooms    []models.Classroom
	groups   []models.Group
	slots    []models.TimeSlot
	err      error
}

func (m *mockExportSource) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return m.subjects, m.err
}

func (m *mockExportSource) ListClassrooms(ctx context.Context) ([]models.Classroom, error) {
	return m.rooms, m.err
}

func (m *mockExportSource) ListGroups(ctx context.Context) ([]models.Group, error) {
	return m.groups, m.err
}

func (m *mockExportSource) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	return m.slots, m.err
}

type mockRowSource struct {
	rows []models.ScheduleRow
	err  error
}

func (m *mockRowSource) List(ctx context.Context) ([]models.ScheduleRow, error) {
	return m.rows, m.err
}

func TestExportSubjectsCSV(t *testing.T) {
	service := NewExportService(&mockExportSource{
		subjects: []models.Subject{{ID: 1, Name: "Fisica"}, {ID: 2, Name: "Quimica"}},
	}, &mockRowSource{}, zap.NewNop())

	doc, err := service.Subjects(context.Background(), "csv")

	require.NoError(t, err)
	assert.Equal(t, "materias.csv", doc.Filename)
	assert.Equal(t, "text/csv", doc.ContentType)

	records, err := csv.NewReader(bytes.NewReader(doc.Bytes)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"ID", "Nombre"}, records[0])
	assert.Equal(t, []string{"2", "Quimica"}, records[2])
}

func TestExportClassroomsPDF(t *testing.T) {
	service := NewExportService(&mockExportSource{
		rooms: []models.Classroom{{ID: 1, FacultyNumber: 2, RoomNumber: 12}},
	}, &mockRowSource{}, zap.NewNop())

	doc, err := service.Classrooms(context.Background(), "pdf")

	require.NoError(t, err)
	assert.Equal(t, "aulas.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF")))
}

func TestExportTimeSlotsXLSX(t *testing.T) {
	service := NewExportService(&mockExportSource{
		slots: []models.TimeSlot{{ID: 1, StartTime: "08:00:00", EndTime: "10:00:00"}},
	}, &mockRowSource{}, zap.NewNop())

	doc, err := service.TimeSlots(context.Background(), "xlsx")

	require.NoError(t, err)
	assert.Equal(t, "horarios.xlsx", doc.Filename)
	assert.NotEmpty(t, doc.Bytes)
	// XLSX workbooks are zip archives.
	assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("PK")))
}

func TestExportScheduleUsesDisplayRows(t *testing.T) {
	service := NewExportService(&mockExportSource{}, &mockRowSource{
		rows: []models.ScheduleRow{{
			ID:       1,
			TimeSlot: "08:00:00 - 10:00:00",
			Room:     "12",
			Group:    "2A",
			Subject:  "Fisica",
			Teachers: "Rojas, Vargas",
		}},
	}, zap.NewNop())

	doc, err := service.Schedule(context.Background(), "csv")

	require.NoError(t, err)
	assert.Equal(t, "horarios.csv", doc.Filename)

	records, err := csv.NewReader(bytes.NewReader(doc.Bytes)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Horario", "Aula", "Grupo", "Materia", "Docente"}, records[0])
	assert.Equal(t, "Rojas, Vargas", records[1][4])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	service := NewExportService(&mockExportSource{}, &mockRowSource{}, zap.NewNop())

	_, err := service.Groups(context.Background(), "docx")

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "format")
}

func TestExportPropagatesLoadError(t *testing.T) {
	service := NewExportService(&mockExportSource{
		err: appErrors.Clone(appErrors.ErrLoad, "backend unreachable"),
	}, &mockRowSource{}, zap.NewNop())

	_, err := service.Subjects(context.Background(), "csv")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrLoad.Code, appErrors.FromError(err).Code)
}
