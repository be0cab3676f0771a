package scheduler

import (
	"context"
	"time"

	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
)

// SyncRunner executa uma sincronização completa a partir do instante informado
type SyncRunner interface {
	Run(ctx context.Context, now time.Time) (*domain.SyncRun, error)
}
