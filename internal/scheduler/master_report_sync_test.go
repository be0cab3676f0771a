package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	repomocks "github.com/vfg2006/appsflyer-master-sync/infrastructure/repository/mocks"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
	"github.com/vfg2006/appsflyer-master-sync/internal/scheduler/mocks"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		AppsFlyer: config.AppsFlyer{UpToDaysAgo: 1, DateRange: 7},
		MasterReportSync: config.MasterReportSync{
			CronSchedule: "0 2 * * *",
			Enabled:      false,
		},
	}
}

func TestMasterReportSyncService_syncMasterReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRunner := mocks.NewMockSyncRunner(ctrl)
	mockSyncRunRepo := repomocks.NewMockSyncRunRepository(ctrl)

	now := time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC)
	succeeded := &domain.SyncRun{ID: "Ab12Cd34Ef", Status: domain.SyncRunStatusSucceeded, Windows: 7, Records: 70}
	failed := &domain.SyncRun{ID: "Zx98Yw76Vu", Status: domain.SyncRunStatusFailed, Error: "timeout"}

	tests := []struct {
		name     string
		setup    func()
		validate func(t *testing.T, status map[string]any)
	}{
		{
			name: "Sincronização concluída é persistida",
			setup: func() {
				mockRunner.EXPECT().Run(gomock.Any(), now).Return(succeeded, nil)
				mockSyncRunRepo.EXPECT().Save(gomock.Any(), succeeded).Return(nil)
			},
			validate: func(t *testing.T, status map[string]any) {
				assert.Equal(t, *succeeded, status["last_sync_run"])
				assert.Equal(t, false, status["sync_running"])
			},
		},
		{
			name: "Sincronização com falha também é persistida",
			setup: func() {
				mockRunner.EXPECT().Run(gomock.Any(), now).Return(failed, errors.New("timeout"))
				mockSyncRunRepo.EXPECT().Save(gomock.Any(), failed).Return(nil)
			},
			validate: func(t *testing.T, status map[string]any) {
				assert.Equal(t, *failed, status["last_sync_run"])
			},
		},
		{
			name: "Erro de configuração não gera histórico",
			setup: func() {
				mockRunner.EXPECT().Run(gomock.Any(), now).Return(nil, config.ErrMissingAPIToken)
			},
			validate: func(t *testing.T, status map[string]any) {
				_, ok := status["last_sync_run"]
				assert.False(t, ok)
			},
		},
		{
			name: "Falha ao salvar o histórico não interrompe o serviço",
			setup: func() {
				mockRunner.EXPECT().Run(gomock.Any(), now).Return(succeeded, nil)
				mockSyncRunRepo.EXPECT().Save(gomock.Any(), succeeded).Return(errors.New("conexão recusada"))
			},
			validate: func(t *testing.T, status map[string]any) {
				assert.Equal(t, *succeeded, status["last_sync_run"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewMasterReportSyncService(mockRunner, mockSyncRunRepo, testConfig())
			service.clock = func() time.Time { return now }

			tt.setup()
			service.syncMasterReport()

			status := service.GetStatus()
			assert.Equal(t, now, status["last_sync_started_at"])
			tt.validate(t, status)
		})
	}
}

func TestMasterReportSyncService_TriggerManualSync_IgnoresWhileRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRunner := mocks.NewMockSyncRunner(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})

	mockRunner.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Time) (*domain.SyncRun, error) {
			close(started)
			<-release
			return &domain.SyncRun{ID: "Ab12Cd34Ef", Status: domain.SyncRunStatusSucceeded}, nil
		}).
		Times(1)

	service := NewMasterReportSyncService(mockRunner, nil, testConfig())

	require.True(t, service.TriggerManualSync())
	<-started

	assert.True(t, service.IsRunning())
	assert.False(t, service.TriggerManualSync())

	// o agendamento também é ignorado enquanto há execução
	service.syncMasterReport()

	close(release)
	service.Wait()

	assert.False(t, service.IsRunning())
}

func TestMasterReportSyncService_StartDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewMasterReportSyncService(mocks.NewMockSyncRunner(ctrl), nil, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, service.Start(ctx))
	assert.Equal(t, false, service.GetStatus()["sync_enabled"])
}

func TestMasterReportSyncService_StartInvalidCron(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig()
	cfg.MasterReportSync.Enabled = true
	cfg.MasterReportSync.CronSchedule = "isso não é cron"

	service := NewMasterReportSyncService(mocks.NewMockSyncRunner(ctrl), nil, cfg)

	err := service.Start(context.Background())
	assert.Error(t, err)
}
