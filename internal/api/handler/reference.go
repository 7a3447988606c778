package handler

import (
	"net/http"
	"strconv"

	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/enriching"
	"github.com/vfg2006/lead-enrichment-api/pkg/apiErrors"
	"github.com/vfg2006/lead-enrichment-api/pkg/log"
	"github.com/vfg2006/lead-enrichment-api/pkg/middleware"
)

func ListCountries() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.Countries)
	})
}

// EstimateCredits calcula o custo mensal e anual para N domínios por mês
func EstimateCredits(cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		domains, err := strconv.Atoi(r.URL.Query().Get("domains"))
		if err != nil || domains < 0 {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro domains deve ser um inteiro não negativo", nil)
			return
		}

		creditsPerDomain := cfg.Enrichment.CreditsPerDomain
		if creditsPerDomain <= 0 {
			creditsPerDomain = domain.DefaultCreditsPerDomain
		}

		writeJSON(w, http.StatusOK, domain.EstimateCredits(domains, creditsPerDomain))
	})
}

func RemainingCredits(checker enriching.CreditChecker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		balance, err := checker.RemainingCredits(r.Context(), middleware.APIKeyFromContext(r.Context()))
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Falha ao consultar saldo de créditos")
			writeEnrichmentError(w, err, "Erro ao consultar saldo de créditos")
			return
		}

		writeJSON(w, http.StatusOK, balance)
	})
}
