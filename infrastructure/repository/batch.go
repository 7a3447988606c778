package repository

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
)

var (
	ErrBatchExists   = errors.New("batch already exists")
	ErrBatchNotFound = errors.New("batch not found")
)

type BatchRepository interface {
	Create(batch *domain.Batch) error
	SaveResult(batchID string, result *domain.DomainResult) error
	Finish(batchID string, state domain.BatchState, haltedBy domain.Status, finishedAt time.Time) error
	Get(batchID string) (*domain.Batch, error)
	DeleteFinishedBefore(cutoff time.Time) (int, error)
}

// batchRepository guarda os lotes em memória. Resultados só existem
// durante a vida do processo e são descartados pela rotina de limpeza.
type batchRepository struct {
	mu      sync.RWMutex
	batches map[string]*domain.Batch
}

func NewBatchRepository() BatchRepository {
	return &batchRepository{
		batches: make(map[string]*domain.Batch),
	}
}

func (r *batchRepository) Create(batch *domain.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.batches[batch.ID]; ok {
		return errors.Wrapf(ErrBatchExists, "batch %s", batch.ID)
	}

	r.batches[batch.ID] = snapshot(batch)

	return nil
}

func (r *batchRepository) SaveResult(batchID string, result *domain.DomainResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch, ok := r.batches[batchID]
	if !ok {
		return errors.Wrapf(ErrBatchNotFound, "batch %s", batchID)
	}

	if result.Index < 0 || result.Index >= len(batch.Results) {
		return errors.Errorf("result index %d out of range for batch %s", result.Index, batchID)
	}

	batch.Results[result.Index] = result

	return nil
}

func (r *batchRepository) Finish(batchID string, state domain.BatchState, haltedBy domain.Status, finishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch, ok := r.batches[batchID]
	if !ok {
		return errors.Wrapf(ErrBatchNotFound, "batch %s", batchID)
	}

	batch.State = state
	batch.HaltedBy = haltedBy
	batch.FinishedAt = &finishedAt

	return nil
}

// Get retorna uma cópia do lote, ou nil quando não existe
func (r *batchRepository) Get(batchID string) (*domain.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	batch, ok := r.batches[batchID]
	if !ok {
		return nil, nil
	}

	return snapshot(batch), nil
}

// DeleteFinishedBefore remove os lotes finalizados antes do corte. Lotes em
// execução nunca são removidos.
func (r *batchRepository) DeleteFinishedBefore(cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, batch := range r.batches {
		if batch.FinishedAt == nil || !batch.FinishedAt.Before(cutoff) {
			continue
		}

		delete(r.batches, id)
		removed++
	}

	if removed > 0 {
		logrus.WithFields(logrus.Fields{
			"removed": removed,
			"cutoff":  cutoff.Format(time.RFC3339),
		}).Debug("expired batches removed")
	}

	return removed, nil
}

func snapshot(batch *domain.Batch) *domain.Batch {
	cp := *batch

	cp.Results = make([]*domain.DomainResult, len(batch.Results))
	copy(cp.Results, batch.Results)

	if batch.FinishedAt != nil {
		finishedAt := *batch.FinishedAt
		cp.FinishedAt = &finishedAt
	}

	return &cp
}
