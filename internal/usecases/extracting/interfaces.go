package extracting

import (
	"context"

	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
)

// ReportFetcher busca as linhas brutas de uma única janela
type ReportFetcher interface {
	FetchWindow(ctx context.Context, window domain.DateWindow) ([]domain.Record, error)
}

// RecordSink recebe os registros canônicos de cada janela, na ordem em que foram buscados
type RecordSink interface {
	WriteRecords(ctx context.Context, window domain.DateWindow, records []domain.Record) error
}
