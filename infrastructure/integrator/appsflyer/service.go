package appsflyer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/integrator/appsflyer/afclient"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/domain"
)

// MasterReportIntegrator busca no AppsFlyer as linhas do relatório master de uma janela
type MasterReportIntegrator struct {
	cfg    *config.Config
	Client afclient.Client
}

func New(cfg *config.Config, client afclient.Client) *MasterReportIntegrator {
	return &MasterReportIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// FetchWindow monta os parâmetros a partir da configuração estática e da janela
func (s *MasterReportIntegrator) FetchWindow(ctx context.Context, window domain.DateWindow) ([]domain.Record, error) {
	params := s.Params(window)

	records, err := s.Client.GetMasterReport(ctx, params)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"app_id": params.AppID,
			"from":   window.Start.Format(time.DateOnly),
			"to":     window.End.Format(time.DateOnly),
			"error":  err.Error(),
		}).Error("master report: falha ao buscar janela na API")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"app_id":  params.AppID,
		"from":    window.Start.Format(time.DateOnly),
		"to":      window.End.Format(time.DateOnly),
		"records": len(records),
	}).Debug("master report: janela recebida com sucesso")

	return records, nil
}

func (s *MasterReportIntegrator) Params(window domain.DateWindow) afclient.MasterReportParams {
	return afclient.MasterReportParams{
		APIToken:  s.cfg.AppsFlyer.APIToken,
		AppID:     s.cfg.AppsFlyer.AppID,
		Groupings: s.cfg.AppsFlyer.Groupings,
		KPIs:      s.cfg.AppsFlyer.KPIs,
		From:      window.Start,
		To:        window.End,
	}
}
