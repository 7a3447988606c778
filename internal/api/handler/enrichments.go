package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/lead-enrichment-api/internal/config"
	"github.com/vfg2006/lead-enrichment-api/internal/domain"
	"github.com/vfg2006/lead-enrichment-api/internal/usecases/enriching"
	"github.com/vfg2006/lead-enrichment-api/pkg/apiErrors"
	"github.com/vfg2006/lead-enrichment-api/pkg/log"
	"github.com/vfg2006/lead-enrichment-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CreateEnrichmentRequest é o corpo de POST /v1/enrichments. Domains é o
// texto livre com um domínio por linha.
type CreateEnrichmentRequest struct {
	Domains        string `json:"domains"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Country        string `json:"country"`
	MainDomainOnly bool   `json:"main_domain_only"`
}

type EnrichmentResponse struct {
	*domain.Batch
	Pending   int                    `json:"pending"`
	Summary   domain.BatchSummary    `json:"summary"`
	Results   []*domain.DomainResult `json:"results"`
	Downloads map[string]string      `json:"downloads"`
}

func newEnrichmentResponse(batch *domain.Batch, creditsPerDomain int) EnrichmentResponse {
	results := batch.ProcessedResults()
	base := "/v1/enrichments/" + batch.ID + "/"

	return EnrichmentResponse{
		Batch:   batch,
		Pending: batch.Pending(),
		Summary: domain.Summarize(results, creditsPerDomain),
		Results: results,
		Downloads: map[string]string{
			"metadata":    base + "metadata.csv",
			"time_series": base + "time-series.csv",
			"summary":     base + "summary.csv",
			"archive":     base + "archive.zip",
		},
	}
}

// Limite do corpo de POST /v1/enrichments
const maxRequestBodyBytes = 1 << 20

func CreateEnrichment(service enriching.BatchService, cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var request CreateEnrichmentRequest
		body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
		if err := json.NewDecoder(body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		batch, err := service.Start(r.Context(), domain.BatchInput{
			Domains:        domain.ParseDomainList(request.Domains),
			StartDate:      request.StartDate,
			EndDate:        request.EndDate,
			Country:        request.Country,
			APIKey:         middleware.APIKeyFromContext(r.Context()),
			MainDomainOnly: request.MainDomainOnly,
		})
		if err != nil {
			logger.WithError(err).Warn("Lote de enriquecimento recusado")
			writeEnrichmentError(w, err, "Erro ao iniciar lote de enriquecimento")
			return
		}

		writeJSON(w, http.StatusAccepted, newEnrichmentResponse(batch, cfg.Enrichment.CreditsPerDomain))
	})
}

func GetEnrichment(service enriching.BatchService, cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		batchID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		batch, err := service.Get(batchID)
		if err != nil {
			writeEnrichmentError(w, err, "Erro ao consultar lote")
			return
		}

		writeJSON(w, http.StatusOK, newEnrichmentResponse(batch, cfg.Enrichment.CreditsPerDomain))
	})
}

// CancelEnrichment interrompe o lote; os resultados já obtidos continuam disponíveis
func CancelEnrichment(service enriching.BatchService, cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		batchID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		batch, err := service.Cancel(batchID)
		if err != nil {
			writeEnrichmentError(w, err, "Erro ao cancelar lote")
			return
		}

		writeJSON(w, http.StatusOK, newEnrichmentResponse(batch, cfg.Enrichment.CreditsPerDomain))
	})
}

func writeEnrichmentError(w http.ResponseWriter, err error, fallbackMessage string) {
	var enrichErr *enriching.EnrichmentError
	if errors.As(err, &enrichErr) {
		var details map[string]any
		if enrichErr.BatchID != "" {
			details = map[string]any{"batch_id": enrichErr.BatchID}
		}
		apiErrors.WriteError(w, enrichErr.Code, enrichErr.Error(), details)
		return
	}

	if errors.Is(err, domain.ErrInvalidInput) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallbackMessage, nil)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Error("Erro ao codificar resposta")
	}
}
