package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/lead-enrichment-api/internal/api/handler"
	"github.com/vfg2006/lead-enrichment-api/internal/api/handler/router"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/scheduler"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/enriching"
	"github.com/vfg2006/lead-enrichment-api/pkg/apiErrors"
	"github.com/vfg2006/lead-enrichment-api/pkg/middleware"
)

type Server struct {
	httpServer   *http.Server
	batchService enriching.BatchService
}

// NewHandler monta o router com todas as rotas e middlewares globais
func NewHandler(
	config *config.Config,
	batchService enriching.BatchService,
	creditChecker enriching.CreditChecker,
	batchCleanupService *scheduler.BatchCleanupService,
) http.Handler {
	cronServices := handler.CronJobServices{
		BatchCleanupService: batchCleanupService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Reference(creditChecker, config)...),
		router.WithRoutes(handler.Enrichments(batchService, config)...),
		router.WithRoutes(handler.Downloads(batchService)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
		router.WithNotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Rota não encontrada: "+r.URL.Path, nil)
		})),
		router.WithMethodNotAllowed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiErrors.WriteError(w, apiErrors.ErrMethodNotAllowed, "Método não permitido: "+r.Method, nil)
		})),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.APIKeyMiddleware(),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(
	config *config.Config,
	batchService enriching.BatchService,
	creditChecker enriching.CreditChecker,
	batchCleanupService *scheduler.BatchCleanupService,
) (*Server, error) {
	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, batchService, creditChecker, batchCleanupService),
			ReadHeaderTimeout: 2 * time.Second,
		},
		batchService: batchService,
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

// Shutdown para de aceitar requisições e cancela os lotes em execução.
// Os resultados parciais já gravados se perdem junto com o processo.
func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("Servidor HTTP desligado com sucesso")

	if s.batchService != nil {
		if err := s.batchService.Shutdown(ctx); err != nil {
			return err
		}
		logrus.Info("Lotes em execução encerrados")
	}

	return nil
}
