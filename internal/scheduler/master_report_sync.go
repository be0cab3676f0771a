package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/repository"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
)

// MasterReportSyncConfig representa a configuração do agendador do relatório master
type MasterReportSyncConfig struct {
	CronSchedule        string
	RequestDelaySeconds int
	SyncEnabled         bool
	UpToDaysAgo         int
	DateRange           int
}

// MasterReportSyncService gerencia o agendamento e a execução da sincronização do relatório master
type MasterReportSyncService struct {
	scheduler           *gocron.Scheduler
	config              MasterReportSyncConfig
	runner              SyncRunner
	syncRunRepo         repository.SyncRunRepository
	clock               func() time.Time
	ctx                 context.Context
	wg                  sync.WaitGroup
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRun             *domain.SyncRun
}

// NewMasterReportSyncService cria uma nova instância do serviço de sincronização.
// syncRunRepo pode ser nil quando o histórico não é persistido.
func NewMasterReportSyncService(
	runner SyncRunner,
	syncRunRepo repository.SyncRunRepository,
	appConfig *config.Config,
) *MasterReportSyncService {
	syncConfig := MasterReportSyncConfig{
		CronSchedule:        appConfig.MasterReportSync.CronSchedule,
		RequestDelaySeconds: appConfig.MasterReportSync.RequestDelaySeconds,
		SyncEnabled:         appConfig.MasterReportSync.Enabled,
		UpToDaysAgo:         appConfig.AppsFlyer.UpToDaysAgo,
		DateRange:           appConfig.AppsFlyer.DateRange,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         syncConfig.CronSchedule,
		"request_delay_seconds": syncConfig.RequestDelaySeconds,
		"sync_enabled":          syncConfig.SyncEnabled,
		"up_to_days_ago":        syncConfig.UpToDaysAgo,
		"date_range":            syncConfig.DateRange,
	}).Info("Configuração do agendador do relatório master carregada")

	return &MasterReportSyncService{
		scheduler:   gocron.NewScheduler(time.Local),
		config:      syncConfig,
		runner:      runner,
		syncRunRepo: syncRunRepo,
		clock:       time.Now,
		ctx:         context.Background(),
	}
}

// Start inicia o agendador. O contexto também é repassado às execuções,
// então cancelá-lo interrompe uma sincronização em andamento.
func (s *MasterReportSyncService) Start(ctx context.Context) error {
	s.syncMutex.Lock()
	s.ctx = ctx
	s.syncMutex.Unlock()

	if !s.config.SyncEnabled {
		logrus.Info("Sincronização agendada do relatório master desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização do relatório master")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncMasterReport()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização do relatório master: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização do relatório master")
		s.scheduler.Stop()
	}()

	return nil
}

// Wait bloqueia até que as sincronizações disparadas manualmente terminem
func (s *MasterReportSyncService) Wait() {
	s.wg.Wait()
}

// syncMasterReport executa uma sincronização, ignorando o pedido se outra estiver em andamento
func (s *MasterReportSyncService) syncMasterReport() {
	if !s.acquire() {
		logrus.Info("Sincronização do relatório master já em andamento, ignorando")
		return
	}
	s.run()
}

// acquire marca a sincronização como em andamento; false se já estava
func (s *MasterReportSyncService) acquire() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	return true
}

func (s *MasterReportSyncService) run() {
	s.syncMutex.Lock()
	ctx := s.ctx
	startTime := s.clock()
	s.lastSyncStartedAt = startTime
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando sincronização do relatório master")

	run, err := s.runner.Run(ctx, startTime)
	if err != nil {
		logrus.WithError(err).Error("Erro na sincronização do relatório master")
	}

	if run != nil && s.syncRunRepo != nil {
		// o histórico é gravado mesmo com o contexto principal cancelado
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if saveErr := s.syncRunRepo.Save(saveCtx, run); saveErr != nil {
			logrus.WithError(saveErr).WithField("sync_run_id", run.ID).Error("Erro ao salvar execução da sincronização")
		}
		cancel()
	}

	completedAt := s.clock()

	s.syncMutex.Lock()
	s.lastSyncCompletedAt = completedAt
	s.lastRun = run
	s.syncMutex.Unlock()

	fields := logrus.Fields{"duration": completedAt.Sub(startTime).String()}
	if run != nil {
		fields["sync_run_id"] = run.ID
		fields["status"] = run.Status
		fields["windows"] = run.Windows
		fields["records"] = run.Records
	}
	logrus.WithFields(fields).Info("Sincronização do relatório master concluída")
}

// TriggerManualSync inicia manualmente uma sincronização.
// Retorna false se outra sincronização já estiver em andamento.
func (s *MasterReportSyncService) TriggerManualSync() bool {
	if !s.acquire() {
		logrus.Info("Sincronização do relatório master já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando sincronização manual do relatório master")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run()
	}()

	return true
}

// IsRunning indica se há uma sincronização em andamento
func (s *MasterReportSyncService) IsRunning() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return s.syncRunning
}

// GetStatus retorna o status atual do agendador
func (s *MasterReportSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"sync_up_to_days_ago":    s.config.UpToDaysAgo,
		"sync_date_range":        s.config.DateRange,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
	if s.lastRun != nil {
		status["last_sync_run"] = *s.lastRun
	}

	return status
}
