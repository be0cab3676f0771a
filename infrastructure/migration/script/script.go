package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/database/postgres"
	"github.com/vfg2006/appsflyer-master-sync/infrastructure/migration"
	"github.com/vfg2006/appsflyer-master-sync/internal/config"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando script de migração...")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Erro ao carregar configuração: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.Fatalf("Erro ao conectar ao banco de dados: %v", err)
	}
	defer conn.Close()

	startTime := time.Now()
	if err := migration.Apply(ctx, conn); err != nil {
		logrus.Fatalf("Erro ao aplicar migração: %v", err)
	}

	logrus.Infof("Migração concluída em %v", time.Since(startTime))
}
