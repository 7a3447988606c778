package enriching

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/lead-enrichment-api/infrastructure/repository"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
	"github.com/vfg2006/lead-enrichment-api/pkg/apiErrors"
	"github.com/vfg2006/lead-enrichment-api/pkg/log"
	"github.com/vfg2006/lead-enrichment-api/pkg/utils"
)

type BatchService interface {
	Start(ctx context.Context, input domain.BatchInput) (*domain.Batch, error)
	Get(batchID string) (*domain.Batch, error)
	Cancel(batchID string) (*domain.Batch, error)
	Shutdown(ctx context.Context) error
}

// BatchManager executa os lotes em segundo plano e grava cada resultado no
// repositório à medida que chega, para que o download parcial funcione.
type BatchManager struct {
	enrichmentService EnrichmentService
	batchRepository   repository.BatchRepository
	newID             func() (string, error)
	now               func() time.Time

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

func NewBatchManager(enrichmentService EnrichmentService, batchRepository repository.BatchRepository) *BatchManager {
	return &BatchManager{
		enrichmentService: enrichmentService,
		batchRepository:   batchRepository,
		newID:             utils.GenerateID,
		now:               time.Now,
		cancels:           make(map[string]context.CancelFunc),
	}
}

// Start valida a entrada de forma síncrona e dispara a execução. O contexto
// recebido só é usado para o ID de correlação; a execução sobrevive à requisição.
func (m *BatchManager) Start(ctx context.Context, input domain.BatchInput) (*domain.Batch, error) {
	plan, err := m.enrichmentService.Plan(input)
	if err != nil {
		return nil, err
	}

	batchID, err := m.newID()
	if err != nil {
		return nil, NewEnrichmentError(ErrGenerateID, apiErrors.ErrInternalServer, err.Error())
	}

	batch := domain.NewBatch(batchID, plan, m.now())
	if err := m.batchRepository.Create(batch); err != nil {
		return nil, NewEnrichmentErrorWithBatch(ErrBatchStore, apiErrors.ErrInternalServer, batchID, err.Error())
	}

	runCtx, cancel := context.WithCancel(context.Background())
	if correlationID := log.GetCorrelationID(ctx); correlationID != "" {
		runCtx = context.WithValue(runCtx, log.CorrelationIDKey, correlationID)
	}

	m.mu.Lock()
	m.cancels[batchID] = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(runCtx, batchID, plan)

	log.ForContext(ctx).WithFields(log.Fields{
		"batch_id":      batchID,
		"batch_domains": len(plan.Entries),
		"batch_valid":   plan.ValidCount(),
	}).Info("Lote de enriquecimento iniciado")

	return batch, nil
}

func (m *BatchManager) run(ctx context.Context, batchID string, plan *domain.BatchPlan) {
	defer m.wg.Done()
	defer m.release(batchID)

	logger := log.ForContext(ctx).WithField("batch_id", batchID)

	outcome := m.enrichmentService.Execute(ctx, plan, func(result *domain.DomainResult) {
		if err := m.batchRepository.SaveResult(batchID, result); err != nil {
			logger.WithError(err).WithField("domain", result.Domain).Error("Erro ao gravar resultado do lote")
		}
	})

	state := domain.BatchStateCompleted
	if outcome.Cancelled {
		state = domain.BatchStateCancelled
	}

	if err := m.batchRepository.Finish(batchID, state, outcome.HaltedBy, m.now()); err != nil {
		logger.WithError(err).Error("Erro ao finalizar lote")
	}
}

func (m *BatchManager) release(batchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cancel, ok := m.cancels[batchID]; ok {
		cancel()
		delete(m.cancels, batchID)
	}
}

func (m *BatchManager) Get(batchID string) (*domain.Batch, error) {
	batch, err := m.batchRepository.Get(batchID)
	if err != nil {
		return nil, NewEnrichmentErrorWithBatch(ErrBatchStore, apiErrors.ErrInternalServer, batchID, err.Error())
	}

	if batch == nil {
		return nil, NewEnrichmentErrorWithBatch(ErrBatchNotFound, apiErrors.ErrBatchNotFound, batchID, "Lote inexistente ou expirado")
	}

	return batch, nil
}

// Cancel interrompe um lote em execução. Resultados já obtidos são mantidos.
// Cancelar um lote finalizado não tem efeito.
func (m *BatchManager) Cancel(batchID string) (*domain.Batch, error) {
	if _, err := m.Get(batchID); err != nil {
		return nil, err
	}

	m.mu.Lock()
	cancel, running := m.cancels[batchID]
	m.mu.Unlock()

	if running {
		cancel()
		log.L.WithField("batch_id", batchID).Info("Cancelamento do lote solicitado")
	}

	return m.Get(batchID)
}

// Shutdown cancela os lotes em execução e espera a gravação dos resultados
func (m *BatchManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	for _, cancel := range m.cancels {
		cancel()
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait bloqueia até todos os lotes em execução terminarem
func (m *BatchManager) Wait() {
	m.wg.Wait()
}
