package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/database/postgres"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
	"github.com/vfg2006/appsflyer-master-sync/internal/schema"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	masterReportTable = "master_report_rows"

	// separador dos valores de groupings na chave primária
	primaryKeySeparator = "|"

	// linhas por comando INSERT
	upsertBatchSize = 500
)

type MasterReportRepository interface {
	WriteRecords(ctx context.Context, window domain.DateWindow, records []domain.Record) error
}

type masterReportRepository struct {
	conn        *postgres.Connection
	appID       string
	primaryKeys []string
}

func NewMasterReportRepository(conn *postgres.Connection, cfg *config.Config) MasterReportRepository {
	return &masterReportRepository{
		conn:        conn,
		appID:       cfg.AppsFlyer.AppID,
		primaryKeys: schema.PrimaryKeys(cfg.AppsFlyer.Groupings),
	}
}

type masterReportRow struct {
	AppID      string
	ReportDate string
	WindowEnd  string
	PrimaryKey string
	Data       []byte
}

// WriteRecords grava as linhas da janela. Linhas com a mesma chave primária
// na janela são sobrescritas pela última recebida.
func (r *masterReportRepository) WriteRecords(ctx context.Context, window domain.DateWindow, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	rows, err := buildMasterReportRows(r.appID, r.primaryKeys, window, records)
	if err != nil {
		return err
	}

	err = r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(rows); start += upsertBatchSize {
			end := min(start+upsertBatchSize, len(rows))

			query, args, err := buildUpsertQuery(rows[start:end])
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				if pqErr, ok := err.(*pq.Error); ok {
					return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
				}
				return fmt.Errorf("erro ao executar a query: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"app_id":  r.appID,
		"date":    window.Start.Format(time.DateOnly),
		"records": len(rows),
	}).Debug("master report: linhas gravadas no banco")

	return nil
}

func buildMasterReportRows(appID string, primaryKeys []string, window domain.DateWindow, records []domain.Record) ([]masterReportRow, error) {
	index := make(map[string]int, len(records))
	rows := make([]masterReportRow, 0, len(records))

	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("erro ao serializar registro para JSON: %w", err)
		}

		rowAppID := appID
		if v, ok := record["app_id"]; ok && v != nil {
			rowAppID = fmt.Sprint(v)
		}

		row := masterReportRow{
			AppID:      rowAppID,
			ReportDate: window.Start.Format(time.DateOnly),
			WindowEnd:  window.End.Format(time.DateOnly),
			PrimaryKey: PrimaryKeyValue(record, primaryKeys),
			Data:       data,
		}

		// ON CONFLICT não aceita a mesma chave duas vezes no mesmo comando
		key := row.AppID + primaryKeySeparator + row.PrimaryKey
		if i, seen := index[key]; seen {
			rows[i] = row
			continue
		}
		index[key] = len(rows)
		rows = append(rows, row)
	}

	return rows, nil
}

func buildUpsertQuery(rows []masterReportRow) (string, []interface{}, error) {
	query := squirrel.StatementBuilder.
		Insert(masterReportTable).
		Columns("app_id", "report_date", "window_end", "primary_key", "data")

	for _, row := range rows {
		query = query.Values(row.AppID, row.ReportDate, row.WindowEnd, row.PrimaryKey, row.Data)
	}

	return query.
		Suffix(`
			ON CONFLICT (app_id, report_date, primary_key) DO UPDATE SET
				window_end = EXCLUDED.window_end,
				data = EXCLUDED.data,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// PrimaryKeyValue junta os valores dos campos de groupings na ordem declarada.
// Campos ausentes ou nulos entram como texto vazio.
func PrimaryKeyValue(record domain.Record, primaryKeys []string) string {
	parts := make([]string, len(primaryKeys))
	for i, key := range primaryKeys {
		if v, ok := record[key]; ok && v != nil {
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, primaryKeySeparator)
}
