package enriching

import (
	"context"

	"github.com/vfg2006/lead-enrichment-api/internal/domain"
	"github.com/vfg2006/lead-enrichment-api/pkg/apiErrors"
)

type CreditChecker interface {
	RemainingCredits(ctx context.Context, apiKey string) (*domain.CreditBalance, error)
}

// RemainingCredits consulta o saldo da chave na Similarweb sem consumir créditos
func (s *Service) RemainingCredits(ctx context.Context, apiKey string) (*domain.CreditBalance, error) {
	apiKey, err := validateAPIKey(apiKey)
	if err != nil {
		return nil, err
	}

	remaining, err := s.similarwebService.CheckAPIKey(ctx, apiKey)
	if err != nil {
		switch domain.StatusFromError(err) {
		case domain.StatusAuthError:
			return nil, NewEnrichmentError(err, apiErrors.ErrInvalidAPIKey, "Chave recusada pela Similarweb")
		case domain.StatusQuotaExceeded:
			return nil, NewEnrichmentError(err, apiErrors.ErrQuotaExceeded, "Créditos de dados esgotados")
		case domain.StatusNetworkError, domain.StatusCancelled:
			return nil, NewEnrichmentError(err, apiErrors.ErrCommunication, "Falha de comunicação com a Similarweb")
		default:
			return nil, NewEnrichmentError(err, apiErrors.ErrExternalService, "Resposta inesperada da Similarweb")
		}
	}

	balance := domain.NewCreditBalance(remaining, s.creditsPerDomain())
	return &balance, nil
}
