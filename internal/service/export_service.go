package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/models"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
	"github.com/edusuite/siga-gateway/pkg/export"
)

// Export formats offered on every list screen.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Document is a rendered report ready to stream to the client.
type Document struct {
	Filename    string
	ContentType string
	Bytes       []byte
}

type exportSource interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListClassrooms(ctx context.Context) ([]models.Classroom, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
}

type scheduleRowSource interface {
	List(ctx context.Context) ([]models.ScheduleRow, error)
}

// reportSpec fixes the title, base filename and sheet name of one
// report. These match what the legacy reports used, so downstream
// consumers keep their filenames.
type reportSpec struct {
	title    string
	basename string
	sheet    string
}

var (
	subjectReport = reportSpec{title: "Reporte de Materias", basename: "materias", sheet: "Materias"}
	roomReport    = reportSpec{title: "Reporte de Aulas", basename: "aulas", sheet: "Aulas"}
	groupReport   = reportSpec{title: "Reporte de Grupos", basename: "grupos", sheet: "Grupos"}
	slotReport    = reportSpec{title: "Reporte de Horarios", basename: "horarios", sheet: "Horarios"}
	// The timetable report shares name and sheet with the slot report;
	// the legacy reports did the same.
	scheduleReport = reportSpec{title: "Reporte de Horarios", basename: "horarios", sheet: "Horarios"}
)

// ExportService renders list screens into downloadable documents.
type ExportService struct {
	source   exportSource
	schedule scheduleRowSource
	pdf      *export.PDFExporter
	excel    *export.ExcelExporter
	csv      *export.CSVExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(source exportSource, schedule scheduleRowSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		source:   source,
		schedule: schedule,
		pdf:      export.NewPDFExporter(),
		excel:    export.NewExcelExporter(),
		csv:      export.NewCSVExporter(),
		logger:   logger,
	}
}

// Subjects renders the materia list.
func (s *ExportService) Subjects(ctx context.Context, format string) (*Document, error) {
	subjects, err := s.source.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{Headers: []string{"ID", "Nombre"}}
	for _, subject := range subjects {
		data.Rows = append(data.Rows, map[string]string{
			"ID":     strconv.FormatInt(subject.ID, 10),
			"Nombre": subject.Name,
		})
	}
	return s.render(subjectReport, data, format)
}

// Classrooms renders the aula list.
func (s *ExportService) Classrooms(ctx context.Context, format string) (*Document, error) {
	rooms, err := s.source.ListClassrooms(ctx)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{Headers: []string{"ID", "Nro Facultad", "Nro Aula"}}
	for _, room := range rooms {
		data.Rows = append(data.Rows, map[string]string{
			"ID":           strconv.FormatInt(room.ID, 10),
			"Nro Facultad": strconv.Itoa(room.FacultyNumber),
			"Nro Aula":     strconv.Itoa(room.RoomNumber),
		})
	}
	return s.render(roomReport, data, format)
}

// Groups renders the grupo list.
func (s *ExportService) Groups(ctx context.Context, format string) (*Document, error) {
	groups, err := s.source.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{Headers: []string{"ID", "Nombre"}}
	for _, group := range groups {
		data.Rows = append(data.Rows, map[string]string{
			"ID":     strconv.FormatInt(group.ID, 10),
			"Nombre": group.Name,
		})
	}
	return s.render(groupReport, data, format)
}

// TimeSlots renders the horario list.
func (s *ExportService) TimeSlots(ctx context.Context, format string) (*Document, error) {
	slots, err := s.source.ListTimeSlots(ctx)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{Headers: []string{"ID", "Hora Inicio", "Hora Fin"}}
	for _, slot := range slots {
		data.Rows = append(data.Rows, map[string]string{
			"ID":          strconv.FormatInt(slot.ID, 10),
			"Hora Inicio": slot.StartTime,
			"Hora Fin":    slot.EndTime,
		})
	}
	return s.render(slotReport, data, format)
}

// Schedule renders the denormalized timetable.
func (s *ExportService) Schedule(ctx context.Context, format string) (*Document, error) {
	rows, err := s.schedule.List(ctx)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{Headers: []string{"Horario", "Aula", "Grupo", "Materia", "Docente"}}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Horario": row.TimeSlot,
			"Aula":    row.Room,
			"Grupo":   row.Group,
			"Materia": row.Subject,
			"Docente": row.Teachers,
		})
	}
	return s.render(scheduleReport, data, format)
}

func (s *ExportService) render(spec reportSpec, data export.Dataset, format string) (*Document, error) {
	var (
		payload []byte
		err     error
		doc     Document
	)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatPDF:
		payload, err = s.pdf.Render(data, spec.title)
		doc.ContentType = "application/pdf"
		doc.Filename = spec.basename + ".pdf"
	case FormatXLSX:
		payload, err = s.excel.Render(data, spec.sheet)
		doc.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		doc.Filename = spec.basename + ".xlsx"
	case FormatCSV:
		payload, err = s.csv.Render(data)
		doc.ContentType = "text/csv"
		doc.Filename = spec.basename + ".csv"
	default:
		return nil, appErrors.WithFields(map[string]string{
			"format": fmt.Sprintf("unsupported format %q, use pdf, xlsx or csv", format),
		})
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render export document")
	}

	doc.Bytes = payload
	return &doc, nil
}
