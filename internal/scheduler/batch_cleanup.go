package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/lead-enrichment-api/infrastructure/repository"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
)

// BatchCleanupConfig representa a configuração da limpeza de lotes expirados
type BatchCleanupConfig struct {
	CronSchedule string
	Retention    time.Duration
	Enabled      bool
}

// BatchCleanupService remove periodicamente os lotes finalizados há mais
// tempo que a retenção configurada
type BatchCleanupService struct {
	scheduler       *gocron.Scheduler
	config          BatchCleanupConfig
	batchRepository repository.BatchRepository
	now             func() time.Time

	cleanupRunning     bool
	cleanupMutex       sync.Mutex
	lastCleanupAt      time.Time
	lastRemovedBatches int
}

func NewBatchCleanupService(batchRepository repository.BatchRepository, appConfig *config.Config) *BatchCleanupService {
	cleanupConfig := BatchCleanupConfig{
		CronSchedule: appConfig.BatchRetention.CronSchedule,
		Retention:    appConfig.BatchRetention.Retention(),
		Enabled:      appConfig.BatchRetention.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": cleanupConfig.CronSchedule,
		"retention":     cleanupConfig.Retention.String(),
		"enabled":       cleanupConfig.Enabled,
	}).Info("Configuração da limpeza de lotes carregada")

	return &BatchCleanupService{
		scheduler:       gocron.NewScheduler(time.Local),
		config:          cleanupConfig,
		batchRepository: batchRepository,
		now:             time.Now,
	}
}

// Start inicia o agendador
func (s *BatchCleanupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Limpeza de lotes desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de limpeza de lotes")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.cleanupExpiredBatches()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza de lotes: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de limpeza de lotes")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *BatchCleanupService) cleanupExpiredBatches() int {
	s.cleanupMutex.Lock()
	if s.cleanupRunning {
		s.cleanupMutex.Unlock()
		logrus.Info("Limpeza de lotes já em andamento, ignorando")
		return 0
	}
	s.cleanupRunning = true
	s.cleanupMutex.Unlock()

	defer func() {
		s.cleanupMutex.Lock()
		s.cleanupRunning = false
		s.cleanupMutex.Unlock()
	}()

	now := s.now()
	removed, err := s.batchRepository.DeleteFinishedBefore(now.Add(-s.config.Retention))
	if err != nil {
		logrus.WithError(err).Error("Erro ao remover lotes expirados")
		return 0
	}

	s.cleanupMutex.Lock()
	s.lastCleanupAt = now
	s.lastRemovedBatches = removed
	s.cleanupMutex.Unlock()

	if removed > 0 {
		logrus.WithField("removed", removed).Info("Lotes expirados removidos")
	}

	return removed
}

// TriggerManualSync executa a limpeza imediatamente
func (s *BatchCleanupService) TriggerManualSync() {
	logrus.Info("Iniciando limpeza manual de lotes")
	go s.cleanupExpiredBatches()
}

// GetStatus retorna o status atual do agendador
func (s *BatchCleanupService) GetStatus() map[string]any {
	s.cleanupMutex.Lock()
	defer s.cleanupMutex.Unlock()

	return map[string]any{
		"cleanup_enabled":      s.config.Enabled,
		"cleanup_cron":         s.config.CronSchedule,
		"retention_minutes":    int(s.config.Retention.Minutes()),
		"cleanup_running":      s.cleanupRunning,
		"last_cleanup_at":      s.lastCleanupAt,
		"last_removed_batches": s.lastRemovedBatches,
	}
}
