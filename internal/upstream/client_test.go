package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edusuite/siga-gateway/pkg/config"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(config.UpstreamConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	return client, srv
}

func TestRecordInt64Fallbacks(t *testing.T) {
	rec := record{
		"ID_Horario": json.RawMessage(`3`),
		"id_aula":    json.RawMessage(`"7"`),
	}

	assert.Equal(t, int64(3), rec.int64("ID_Horario", "id_horario"))
	assert.Equal(t, int64(7), rec.int64("ID_Aula", "id_aula"), "string-encoded ids parse")
	assert.Equal(t, int64(0), rec.int64("ID_Grupo", "id_grupo"), "missing keys read as zero")
}

func TestRecordStrFallbacks(t *testing.T) {
	rec := record{
		"nombre":     json.RawMessage(`"Quimica"`),
		"Nro_Aula":   json.RawMessage(`12`),
		"Hora_Fin":   json.RawMessage(`"10:30:00"`),
		"unexpected": json.RawMessage(`{"x":1}`),
	}

	assert.Equal(t, "Quimica", rec.str("Nombre", "nombre"))
	assert.Equal(t, "12", rec.str("Nro_Aula"), "numbers stringify")
	assert.Equal(t, "10:30:00", rec.str("Hora_Fin", "hora_fin"))
	assert.Equal(t, "", rec.str("missing"))
}

func TestDecodeListBareArray(t *testing.T) {
	list, err := decodeList([]byte(`[{"ID":1},{"ID":2}]`))

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[1].int64("ID"))
}

func TestDecodeListDataEnvelope(t *testing.T) {
	list, err := decodeList([]byte(`{"data":[{"id":5}]}`))

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(5), list[0].int64("ID", "id"))
}

func TestDecodeListRejectsOtherShapes(t *testing.T) {
	_, err := decodeList([]byte(`{"items":[]}`))
	assert.Error(t, err)
}

func TestDecodeRecordUnwrapsDataObject(t *testing.T) {
	rec, err := decodeRecord([]byte(`{"data":{"ID":9,"Nombre":"A-1"}}`))

	require.NoError(t, err)
	assert.Equal(t, int64(9), rec.int64("ID"))
	assert.Equal(t, "A-1", rec.str("Nombre"))
}

func TestDecodeMutationEmptyBody(t *testing.T) {
	rec, err := decodeMutation([]byte("  \n"))

	require.NoError(t, err)
	assert.Empty(t, rec)
}

func TestGetListWrapsNetworkFailure(t *testing.T) {
	client, srv := newTestClient(t, http.NotFoundHandler())
	srv.Close()

	_, err := client.ListSubjects(context.Background())

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrLoad.Code, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}

func TestDoMapsUpstreamStatuses(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantCode   string
		wantStatus int
	}{
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"message":"token expired"}`,
			wantCode:   appErrors.ErrUnauthorized.Code,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not found",
			status:     http.StatusNotFound,
			body:       `{}`,
			wantCode:   appErrors.ErrNotFound.Code,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "rejected mutation",
			status:     http.StatusUnprocessableEntity,
			body:       `{"message":"Nombre already taken"}`,
			wantCode:   appErrors.ErrUpstream.Code,
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := client.CreateSubject(context.Background(), "Fisica")

			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.Status)
		})
	}
}

func TestDoSurfacesBackendMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"duplicate entry"}`))
	}))

	_, err := client.CreateGroup(context.Background(), "3B")

	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "duplicate entry")
}

func TestDoNotifiesObserver(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))

	observed := make(map[string]int)
	client.SetObserver(observerFunc(func(resource string, _ time.Duration) {
		observed[resource]++
	}))

	_, err := client.ListTimeSlots(context.Background())
	require.NoError(t, err)
	require.NoError(t, client.DeleteTimeSlot(context.Background(), 4))

	assert.Equal(t, 2, observed["horarios"], "id suffix collapses into the resource label")
}

type observerFunc func(resource string, duration time.Duration)

func (f observerFunc) ObserveUpstreamCall(resource string, duration time.Duration) {
	f(resource, duration)
}

func TestResourceLabel(t *testing.T) {
	assert.Equal(t, "materia", resourceLabel("/materia"))
	assert.Equal(t, "detalle-horario", resourceLabel("/detalle-horario/12"))
}
