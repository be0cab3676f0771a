package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/appsflyer-master-sync/pkg/apiErrors"
	"github.com/vfg2006/appsflyer-master-sync/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeMasterReport = "master-report"
)

// CronJob é uma sincronização agendada que também aceita disparo manual
type CronJob interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	MasterReportSyncService CronJob
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeMasterReport:
			if services.MasterReportSyncService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização do relatório master não disponível", nil)
				return
			}
			if !services.MasterReportSyncService.TriggerManualSync() {
				apiErrors.WriteError(w, apiErrors.ErrSyncAlreadyRunning, "Sincronização já em andamento", nil)
				return
			}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: master-report", nil)
			return
		}

		writeJSON(w, r, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.ForContext(r.Context()).Info("INIT - GetCronStatus")

		status := map[string]any{}
		if services.MasterReportSyncService != nil {
			status[CronJobTypeMasterReport] = services.MasterReportSyncService.GetStatus()
		}

		writeJSON(w, r, http.StatusOK, status)
	}
}
