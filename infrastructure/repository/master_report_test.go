package repository

import (
	stdjson "encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
)

func TestPrimaryKeyValue(t *testing.T) {
	keys := []string{"pid", "c", "geo"}

	tests := []struct {
		name   string
		record domain.Record
		want   string
	}{
		{name: "Todos os campos presentes", record: domain.Record{"pid": "fb", "c": "X", "geo": "BR"}, want: "fb|X|BR"},
		{name: "Campo ausente vira vazio", record: domain.Record{"pid": "fb", "geo": "BR"}, want: "fb||BR"},
		{name: "Campo nulo vira vazio", record: domain.Record{"pid": nil, "c": "X", "geo": "BR"}, want: "|X|BR"},
		{name: "Valor numérico", record: domain.Record{"pid": stdjson.Number("10"), "c": 3, "geo": "US"}, want: "10|3|US"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrimaryKeyValue(tt.record, keys))
		})
	}
}

func TestBuildMasterReportRows(t *testing.T) {
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	window := domain.DateWindow{Start: day, End: day}

	records := []domain.Record{
		{"pid": "fb", "c": "X", "installs": 1},
		{"pid": "g", "c": "Y", "installs": 2, "app_id": "other.app"},
		{"pid": "fb", "c": "X", "installs": 5},
	}

	rows, err := buildMasterReportRows("id123", []string{"pid", "c"}, window, records)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// A repetição de fb|X na mesma janela substitui a primeira linha
	assert.Equal(t, "id123", rows[0].AppID)
	assert.Equal(t, "fb|X", rows[0].PrimaryKey)
	assert.Equal(t, "2024-01-05", rows[0].ReportDate)
	assert.Equal(t, "2024-01-05", rows[0].WindowEnd)
	assert.JSONEq(t, `{"pid":"fb","c":"X","installs":5}`, string(rows[0].Data))

	assert.Equal(t, "other.app", rows[1].AppID)
	assert.Equal(t, "g|Y", rows[1].PrimaryKey)
}

func TestBuildUpsertQuery(t *testing.T) {
	rows := []masterReportRow{
		{AppID: "a", ReportDate: "2024-01-05", WindowEnd: "2024-01-05", PrimaryKey: "fb|X", Data: []byte(`{}`)},
		{AppID: "a", ReportDate: "2024-01-05", WindowEnd: "2024-01-05", PrimaryKey: "g|Y", Data: []byte(`{}`)},
	}

	query, args, err := buildUpsertQuery(rows)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO master_report_rows (app_id,report_date,window_end,primary_key,data) VALUES ($1,$2,$3,$4,$5),($6,$7,$8,$9,$10)"), query)
	assert.Contains(t, query, "ON CONFLICT (app_id, report_date, primary_key) DO UPDATE SET")
	assert.Len(t, args, 10)
	assert.Equal(t, "g|Y", args[8])
}
