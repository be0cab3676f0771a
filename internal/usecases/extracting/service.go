package extracting

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
	"github.com/vfg2006/appsflyer-master-sync/internal/normalizing"
	"github.com/vfg2006/appsflyer-master-sync/internal/planning"
	"github.com/vfg2006/appsflyer-master-sync/pkg/log"
	"github.com/vfg2006/appsflyer-master-sync/pkg/utils"
)

// Service conduz o loop de extração: planeja a próxima janela, busca,
// normaliza e entrega ao sink até o planejador indicar o fim.
type Service struct {
	cfg     *config.Config
	fetcher ReportFetcher
	sink    RecordSink
	planner *planning.Planner
	delay   time.Duration
	clock   func() time.Time
}

type Option func(*Service)

// WithPlanner substitui o planejador padrão de janelas de um dia
func WithPlanner(planner *planning.Planner) Option {
	return func(s *Service) {
		s.planner = planner
	}
}

// WithRequestDelay define uma pausa entre janelas consecutivas
func WithRequestDelay(delay time.Duration) Option {
	return func(s *Service) {
		s.delay = delay
	}
}

// WithClock define o relógio usado apenas para marcar o fim da execução
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func NewService(cfg *config.Config, fetcher ReportFetcher, sink RecordSink, opts ...Option) *Service {
	s := &Service{
		cfg:     cfg,
		fetcher: fetcher,
		sink:    sink,
		planner: planning.NewPlanner(),
		clock:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run executa uma sincronização completa com now como instante de referência.
// Erros de configuração retornam antes de qualquer janela ser planejada e sem
// resumo. Nos demais casos o resumo é devolvido junto do erro.
func (s *Service) Run(ctx context.Context, now time.Time) (*domain.SyncRun, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	fieldMap, err := normalizing.FieldMapForVersion(s.cfg.AppsFlyer.ReportVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	replicationRange, err := planning.ComputeRange(now, s.cfg.AppsFlyer.UpToDaysAgo, s.cfg.AppsFlyer.DateRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	planned, err := s.planner.Windows(replicationRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	runID, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar id da execução")
	}

	run := &domain.SyncRun{
		ID:        runID,
		AppID:     s.cfg.AppsFlyer.AppID,
		From:      replicationRange.From,
		To:        replicationRange.To,
		Status:    domain.SyncRunStatusRunning,
		StartedAt: now,
	}

	ctx = log.WithSyncRunID(ctx, run.ID)
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"app_id": run.AppID,
		"from":   run.From.Format(time.DateOnly),
		"to":     run.To.Format(time.DateOnly),
	})

	logger.WithField("planned_windows", len(planned)).Info("master report: iniciando sincronização")

	err = s.loop(ctx, replicationRange, fieldMap, run)

	completedAt := s.clock()
	run.CompletedAt = &completedAt

	switch {
	case err == nil:
		run.Status = domain.SyncRunStatusSucceeded
		logger.WithFields(log.Fields{
			"windows": run.Windows,
			"records": run.Records,
		}).Info("master report: sincronização concluída")
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		run.Status = domain.SyncRunStatusCanceled
		run.Error = err.Error()
		logger.WithField("windows", run.Windows).Warn("master report: sincronização interrompida")
	default:
		run.Status = domain.SyncRunStatusFailed
		run.Error = err.Error()
		logger.WithError(err).WithField("windows", run.Windows).Error("master report: sincronização falhou")
	}

	return run, err
}

func (s *Service) loop(ctx context.Context, r domain.ReplicationRange, fieldMap normalizing.FieldMap, run *domain.SyncRun) error {
	var token domain.ContinuationToken

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		window, err := s.planner.NextWindow(r, token)
		if err != nil {
			return err
		}
		if window == nil {
			return nil
		}

		if !token.IsZero() && s.delay > 0 {
			if err := sleep(ctx, s.delay); err != nil {
				return err
			}
		}

		raw, err := s.fetcher.FetchWindow(ctx, *window)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrFetchWindow, window.Start.Format(time.DateOnly), err)
		}

		records := s.normalize(ctx, raw, fieldMap, *window)

		if err := s.sink.WriteRecords(ctx, *window, records); err != nil {
			return fmt.Errorf("%w %s: %w", ErrWriteRecords, window.Start.Format(time.DateOnly), err)
		}

		run.Windows++
		run.Records += len(records)

		log.ForContext(ctx).WithFields(log.Fields{
			"start":   window.Start.Format(time.DateOnly),
			"end":     window.End.Format(time.DateOnly),
			"records": len(records),
		}).Debug("master report: janela processada")

		token = window.Token()
	}
}

func (s *Service) normalize(ctx context.Context, raw []domain.Record, fieldMap normalizing.FieldMap, window domain.DateWindow) []domain.Record {
	records := make([]domain.Record, 0, len(raw))
	for _, record := range raw {
		for _, collision := range normalizing.Collisions(record, fieldMap) {
			log.ForContext(ctx).WithFields(log.Fields{
				"window":  window.Start.Format(time.DateOnly),
				"field":   collision.Name,
				"sources": collision.Sources,
			}).Warn("master report: colisão de campos, vale o último rótulo do mapa")
		}
		records = append(records, normalizing.Normalize(record, fieldMap))
	}
	return records
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
