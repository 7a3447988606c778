package enriching

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
)

// Erros de validação do lote. Todos são domain.ErrInvalidInput.
var (
	ErrMissingAPIKey       = errors.Wrap(domain.ErrInvalidInput, "api key is required")
	ErrInvalidAPIKeyFormat = errors.Wrap(domain.ErrInvalidInput, "api key has an invalid format")
	ErrNoDomains           = errors.Wrap(domain.ErrInvalidInput, "at least one domain is required")
	ErrTooManyDomains      = errors.Wrap(domain.ErrInvalidInput, "too many domains")
	ErrInvalidDateRange    = errors.Wrap(domain.ErrInvalidInput, "invalid date range")
	ErrInvalidCountry      = errors.Wrap(domain.ErrInvalidInput, "invalid country")
)

// Erros de gerenciamento dos lotes
var (
	ErrBatchNotFound = errors.New("batch not found")
	ErrBatchStore    = errors.New("batch store operation failed")
	ErrGenerateID    = errors.New("error generating batch ID")
)

// EnrichmentError é um erro com contexto adicional para os lotes
type EnrichmentError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	BatchID string // ID do lote envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *EnrichmentError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

func NewEnrichmentError(err error, code string, details string) *EnrichmentError {
	return &EnrichmentError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewEnrichmentErrorWithBatch(err error, code string, batchID string, details string) *EnrichmentError {
	return &EnrichmentError{
		Err:     err,
		Code:    code,
		BatchID: batchID,
		Details: details,
	}
}
