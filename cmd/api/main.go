package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb"
	"github.com/vfg2006/lead-enrichment-api/infrastructure/integrator/similarweb/similarwebclient"
	"github.com/vfg2006/lead-enrichment-api/infrastructure/repository"
	"github.com/vfg2006/lead-enrichment-api/internal/api"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/scheduler"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/enriching"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batchRepo := repository.NewBatchRepository()

	similarwebClient := similarwebclient.NewClient(cfg)
	similarwebIntegrator := similarweb.New(cfg, similarwebClient)

	enrichmentService := enriching.NewService(similarwebIntegrator, cfg)
	batchService := enriching.NewBatchManager(enrichmentService, batchRepo)

	batchCleanupService := scheduler.NewBatchCleanupService(batchRepo, cfg)

	// Inicia o agendador em background
	if err := batchCleanupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de limpeza de lotes")
	} else {
		logrus.Info("Agendador de limpeza de lotes iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		batchService,
		enrichmentService, // Implementa CreditChecker
		batchCleanupService,
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
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
