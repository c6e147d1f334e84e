package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/internal/service"
	"github.com/edusuite/siga-gateway/internal/session"
	"github.com/edusuite/siga-gateway/internal/upstream"
	"github.com/edusuite/siga-gateway/pkg/config"
)

// fakeBackend serves the legacy API shapes the gateway consumes.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	serve := func(path, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{}`))
				return
			}
			_, _ = w.Write([]byte(body))
		})
	}

	serve("/materia", `[{"ID":40,"Nombre":"Fisica"}]`)
	serve("/aula", `{"data":[{"ID":20,"Nro_Facultad":1,"Nro_Aula":12}]}`)
	serve("/grupos", `[{"ID":30,"Nombre":"2A"}]`)
	serve("/horarios", `[{"ID":10,"Hora_Inicio":"08:00:00","Hora_Fin":"10:00:00"}]`)
	serve("/docente", `[{"ID":51,"Nombre":"Rojas"}]`)
	serve("/asistencias", `[{"ID":1}]`)
	serve("/detalle-horario", `[{"ID":1,"ID_Horario":10,"ID_Aula":20,"ID_Grupo":30,"ID_Materia":40}]`)
	serve("/detalle-docente", `[{"ID":100,"ID_Detalle_Horario":1,"ID_Docente":51,"ID_Asistencia":1}]`)

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		switch creds["email"] {
		case "admin@uni.edu":
			_, _ = w.Write([]byte(`{"user":{"id":1,"name":"Admin","email":"admin@uni.edu","role":"admin"}}`))
		case "teacher@uni.edu":
			_, _ = w.Write([]byte(`{"user":{"id":2,"name":"Docente","email":"teacher@uni.edu","role":"teacher"}}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"bad credentials"}`))
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := fakeBackend(t)

	client, err := upstream.New(config.UpstreamConfig{
		BaseURL: backend.URL,
		Timeout: 2 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	validate := validator.New()
	logger := zap.NewNop()
	store := session.NewMemoryStore()
	sessionCfg := config.SessionConfig{Secret: "test_secret", TTL: time.Hour, Issuer: "siga-gateway"}

	authSvc := service.NewAuthService(client, store, sessionCfg, validate, logger)
	subjectSvc := service.NewSubjectService(client, validate, logger)
	classroomSvc := service.NewClassroomService(client, validate, logger)
	groupSvc := service.NewGroupService(client, validate, logger)
	slotSvc := service.NewTimeSlotService(client, validate, logger)
	teacherSvc := service.NewTeacherService(client, logger)
	scheduleSvc := service.NewScheduleService(client, 1, validate, logger)
	exportSvc := service.NewExportService(client, scheduleSvc, logger)
	dashboardSvc := service.NewDashboardService(client, scheduleSvc, logger)
	metricsSvc := service.NewMetricsService()

	router := NewRouter(
		NewAuthHandler(authSvc),
		NewSubjectHandler(subjectSvc, exportSvc),
		NewClassroomHandler(classroomSvc, exportSvc),
		NewGroupHandler(groupSvc, exportSvc),
		NewTimeSlotHandler(slotSvc, exportSvc),
		NewTeacherHandler(teacherSvc),
		NewScheduleHandler(scheduleSvc, exportSvc),
		NewDashboardHandler(dashboardSvc),
		authSvc,
		metricsSvc,
	)

	r := gin.New()
	router.Register(r, "/api/v1")
	return r
}

func loginAs(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	body := `{"email":"` + email + `","password":"secret"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)
	return envelope.Data.Token
}

func doRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(r, http.MethodPost, "/api/v1/login", "", `{"email":"x@uni.edu","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(r, http.MethodGet, "/api/v1/materias", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTeacherCannotReachAdminRoutes(t *testing.T) {
	r := newTestRouter(t)
	token := loginAs(t, r, "teacher@uni.edu")

	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/api/v1/materias", token, "").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodPost, "/api/v1/detalle-horarios", token, `{}`).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/api/v1/dashboard/admin", token, "").Code)
}

func TestTeacherCanReadTimetableAndOverview(t *testing.T) {
	r := newTestRouter(t)
	token := loginAs(t, r, "teacher@uni.edu")

	rec := doRequest(r, http.MethodGet, "/api/v1/detalle-horarios", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rojas")

	rec = doRequest(r, http.MethodGet, "/api/v1/dashboard/teacher", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminListsSubjects(t *testing.T) {
	r := newTestRouter(t)
	token := loginAs(t, r, "admin@uni.edu")

	rec := doRequest(r, http.MethodGet, "/api/v1/materias", token, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fisica")
}

func TestScheduleListJoinsDisplayNames(t *testing.T) {
	r := newTestRouter(t)
	token := loginAs(t, r, "admin@uni.edu")

	rec := doRequest(r, http.MethodGet, "/api/v1/detalle-horarios", token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "08:00:00 - 10:00:00")
	assert.Contains(t, body, "2A")
	assert.Contains(t, body, "Fisica")
	assert.Contains(t, body, "Rojas")
}

func TestScheduleCreateValidationFieldMap(t *testing.T) {
	r := newTestRouter(t)
	token := loginAs(t, r, "admin@uni.edu")

	rec := doRequest(r, http.MethodPost, "/api/v1/detalle-horarios", token,
		`{"horario_id":10,"grupo_id":30}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "aula_id")
	assert.Contains(t, body, "materia_id")
	assert.Contains(t, body, "docente_ids")
}

func TestScheduleExportAsDownload(t *testing.T) {
	r := newTestRouter(t)
	token := loginAs(t, r, "admin@uni.edu")

	rec := doRequest(r, http.MethodGet, "/api/v1/detalle-horarios/export?format=csv", token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "horarios.csv")
	assert.Contains(t, rec.Body.String(), "Horario,Aula,Grupo,Materia,Docente")
}

func TestProfileRoundTrip(t *testing.T) {
	r := newTestRouter(t)
	token := loginAs(t, r, "admin@uni.edu")

	rec := doRequest(r, http.MethodGet, "/api/v1/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin@uni.edu")

	rec = doRequest(r, http.MethodPut, "/api/v1/me", token, `{"name":"Root Admin","email":"root@uni.edu"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(r, http.MethodGet, "/api/v1/me", token, "")
	assert.Contains(t, rec.Body.String(), "Root Admin")
}

func TestLogoutInvalidatesSnapshot(t *testing.T) {
	r := newTestRouter(t)
	token := loginAs(t, r, "admin@uni.edu")

	require.Equal(t, http.StatusNoContent, doRequest(r, http.MethodPost, "/api/v1/logout", token, "").Code)

	rec := doRequest(r, http.MethodGet, "/api/v1/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMetricsEndpointExposed(t *testing.T) {
	r := newTestRouter(t)

	rec := doRequest(r, http.MethodGet, "/metrics", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutines_total")
}
