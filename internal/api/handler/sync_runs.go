package handler

import (
	"net/http"
	"strconv"

	"github.com/vfg2006/appsflyer-master-sync/infrastructure/repository"
	"github.com/vfg2006/appsflyer-master-sync/pkg/apiErrors"
	"github.com/vfg2006/appsflyer-master-sync/pkg/log"
)

// ListSyncRuns retorna o histórico de execuções, mais recentes primeiro
func ListSyncRuns(repo repository.SyncRunRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := repository.DefaultSyncRunLimit

		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > repository.MaxSyncRunLimit {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit deve ser um inteiro entre 1 e 200", nil)
				return
			}
			limit = parsed
		}

		runs, err := repo.List(r.Context(), limit)
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao listar execuções")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar execuções", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]any{
			"sync_runs": runs,
			"count":     len(runs),
		})
	}
}
