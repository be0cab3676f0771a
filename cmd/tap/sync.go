package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/emitter"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/integrator/appsflyer"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/integrator/appsflyer/afclient"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/usecases/extracting"
	"github.com/vfg2006/appsflyer-master-sync/pkg/utils"
)

type syncOptions struct {
	asOf        string
	appID       string
	upToDaysAgo int
	dateRange   int
}

func newSyncCmd() *cobra.Command {
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sincroniza o intervalo configurado e escreve SCHEMA e RECORD em stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			now, err := opts.apply(cmd, cfg)
			if err != nil {
				return err
			}

			singer := emitter.NewSingerEmitter(cmd.OutOrStdout(), cfg.AppsFlyer.Groupings)
			if err := singer.WriteSchema(); err != nil {
				return err
			}

			service := extracting.NewService(
				cfg,
				appsflyer.New(cfg, afclient.NewClient(cfg)),
				singer,
				extracting.WithRequestDelay(time.Duration(cfg.MasterReportSync.RequestDelaySeconds)*time.Second),
			)

			run, err := service.Run(cmd.Context(), now)
			if run != nil {
				logrus.WithFields(logrus.Fields{
					"sync_run_id": run.ID,
					"status":      run.Status,
					"windows":     run.Windows,
					"records":     run.Records,
				}).Info("Sincronização finalizada")
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.asOf, "as-of", "", "Data de referência no formato YYYY-MM-DD (padrão: hoje)")
	flags.StringVar(&opts.appID, "app-id", "", "Sobrescreve APPSFLYER_APP_ID")
	flags.IntVar(&opts.upToDaysAgo, "up-to-days-ago", 0, "Sobrescreve APPSFLYER_UP_TO_DAYS_AGO")
	flags.IntVar(&opts.dateRange, "date-range", 0, "Sobrescreve APPSFLYER_DATE_RANGE")

	return cmd
}

// apply sobrescreve a configuração com as flags informadas e devolve o
// instante de referência da execução
func (o *syncOptions) apply(cmd *cobra.Command, cfg *config.Config) (time.Time, error) {
	flags := cmd.Flags()

	if o.appID != "" {
		cfg.AppsFlyer.AppID = o.appID
	}
	if flags.Changed("up-to-days-ago") {
		cfg.AppsFlyer.UpToDaysAgo = o.upToDaysAgo
	}
	if flags.Changed("date-range") {
		cfg.AppsFlyer.DateRange = o.dateRange
	}

	asOf, err := utils.ParseDate(o.asOf)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "flag --as-of")
	}
	if asOf == nil {
		return time.Now(), nil
	}
	return *asOf, nil
}
