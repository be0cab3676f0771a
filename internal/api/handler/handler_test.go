package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/repository/mocks"
	"github.com/vfg2006/appsflyer-master-sync/internal/api/handler/router"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
	"github.com/vfg2006/appsflyer-master-sync/pkg/middleware"
	"go.uber.org/mock/gomock"
)

type fakeCronJob struct {
	started bool
	calls   int
}

func (f *fakeCronJob) TriggerManualSync() bool {
	f.calls++
	return f.started
}

func (f *fakeCronJob) GetStatus() map[string]any {
	return map[string]any{"sync_running": !f.started}
}

// asOperator injeta as claims como o AuthMiddleware faria
func asOperator(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := &domain.Claims{Name: "ops", Role: domain.OperatorRole}
		h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, claims)))
	})
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRunCronJob(t *testing.T) {
	tests := []struct {
		name       string
		job        *fakeCronJob
		target     string
		wantStatus int
		wantCalls  int
	}{
		{name: "Disparo aceito", job: &fakeCronJob{started: true}, target: "/v1/cron/master-report", wantStatus: http.StatusAccepted, wantCalls: 1},
		{name: "Sincronização já em andamento", job: &fakeCronJob{started: false}, target: "/v1/cron/master-report", wantStatus: http.StatusConflict, wantCalls: 1},
		{name: "Tipo inválido", job: &fakeCronJob{started: true}, target: "/v1/cron/meta", wantStatus: http.StatusBadRequest, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := router.New(router.WithRoutes(CronJobs(CronJobServices{MasterReportSyncService: tt.job})...))

			rec := serve(t, asOperator(rt), http.MethodPost, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalls, tt.job.calls)
		})
	}
}

func TestRunCronJob_ServiceUnavailable(t *testing.T) {
	rt := router.New(router.WithRoutes(CronJobs(CronJobServices{})...))

	rec := serve(t, asOperator(rt), http.MethodPost, "/v1/cron/master-report")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCronJobs_RequireOperator(t *testing.T) {
	rt := router.New(router.WithRoutes(CronJobs(CronJobServices{MasterReportSyncService: &fakeCronJob{started: true}})...))

	rec := serve(t, rt, http.MethodPost, "/v1/cron/master-report")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCronStatus(t *testing.T) {
	rt := router.New(router.WithRoutes(CronJobs(CronJobServices{MasterReportSyncService: &fakeCronJob{started: true}})...))

	rec := serve(t, asOperator(rt), http.MethodGet, "/v1/cron/status")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, map[string]any{"sync_running": false}, body[CronJobTypeMasterReport])
}

func TestGetSchema(t *testing.T) {
	cfg := &config.Config{AppsFlyer: config.AppsFlyer{Groupings: "pid,c"}}
	rt := router.New(router.WithRoutes(Schema(cfg)...))

	rec := serve(t, asOperator(rt), http.MethodGet, "/v1/schema")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	streams := body["streams"].([]any)
	require.Len(t, streams, 1)
	stream := streams[0].(map[string]any)
	assert.Equal(t, "master", stream["stream"])
	assert.Equal(t, []any{"pid", "c"}, stream["key_properties"])
}

func TestListSyncRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockSyncRunRepository(ctrl)
	rt := router.New(router.WithRoutes(SyncRuns(mockRepo)...))

	started := time.Date(2024, 1, 4, 2, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		target     string
		setup      func()
		wantStatus int
		wantCount  float64
	}{
		{
			name:   "Limite padrão",
			target: "/v1/sync-runs",
			setup: func() {
				mockRepo.EXPECT().List(gomock.Any(), 20).Return([]*domain.SyncRun{
					{ID: "Ab12Cd34Ef", Status: domain.SyncRunStatusSucceeded, StartedAt: started},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:   "Limite informado",
			target: "/v1/sync-runs?limit=5",
			setup: func() {
				mockRepo.EXPECT().List(gomock.Any(), 5).Return([]*domain.SyncRun{}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name:       "Limite inválido",
			target:     "/v1/sync-runs?limit=abc",
			setup:      func() {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Limite acima do máximo",
			target:     "/v1/sync-runs?limit=500",
			setup:      func() {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "Erro no banco",
			target: "/v1/sync-runs",
			setup: func() {
				mockRepo.EXPECT().List(gomock.Any(), 20).Return(nil, errors.New("conexão recusada"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			rec := serve(t, asOperator(rt), http.MethodGet, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantCount, decodeBody(t, rec)["count"])
			}
		})
	}
}

func TestHealthcheck(t *testing.T) {
	rt := router.New(router.WithRoutes(Healthcheck()...))

	rec := serve(t, rt, http.MethodGet, "/healthcheck")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}
