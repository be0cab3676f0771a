package handler

import (
	"net/http"

	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/schema"
)

// GetSchema retorna o catálogo do stream master com as chaves primárias configuradas
func GetSchema(cfg *config.Config) http.HandlerFunc {
	catalog := schema.NewCatalog(cfg.AppsFlyer.Groupings)

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, catalog)
	}
}
