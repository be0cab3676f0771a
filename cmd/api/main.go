package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/database/postgres"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/integrator/appsflyer"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/integrator/appsflyer/afclient"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/migration"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/repository"
	"github.com/vfg2006/appsflyer-master-sync/internal/api"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
	"github.com/vfg2006/appsflyer-master-sync/internal/scheduler"
	"github.com/vfg2006/appsflyer-master-sync/internal/usecases/authenticating"
	"github.com/vfg2006/appsflyer-master-sync/internal/usecases/extracting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	// Sem credenciais do AppsFlyer nenhuma janela pode ser buscada
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Configuração do AppsFlyer inválida")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if err := migration.Apply(ctx, pgConn); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migração")
	}

	masterReportRepo := repository.NewMasterReportRepository(pgConn, cfg)
	syncRunRepo := repository.NewSyncRunRepository(pgConn)

	authenticator := authenticating.NewService(cfg)

	afClient := afclient.NewClient(cfg)
	masterReportIntegrator := appsflyer.New(cfg, afClient)

	extractingService := extracting.NewService(
		cfg,
		masterReportIntegrator,
		masterReportRepo,
		extracting.WithRequestDelay(time.Duration(cfg.MasterReportSync.RequestDelaySeconds)*time.Second),
	)

	masterReportSyncService := scheduler.NewMasterReportSyncService(
		extractingService,
		syncRunRepo,
		cfg,
	)

	if err := masterReportSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização do relatório master")
	} else {
		logrus.Info("Agendador de sincronização do relatório master iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		authenticator,
		syncRunRepo,
		masterReportSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
